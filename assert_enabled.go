//go:build assert_enabled

package pathfind

const AssertsEnabled = true

func Assert(condition bool) {
	if !condition {
		panic("assert failed")
	}
}
