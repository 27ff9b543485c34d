//go:build !assert_enabled

package pathfind

const AssertsEnabled = false

func Assert(condition bool) {
}
