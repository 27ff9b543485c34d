package pathfind

import (
	"crypto/sha256"
	"encoding/hex"
)

// RegressionId returns a string which uniquely identifies the playthrough.
// It is a hash of all the states of the World. It is meant to check if the
// state of the World at each step in the playthrough is the same after a
// refactorization of the World.
//
// RegressionId is meant to be used this way:
// - Compute the RegressionId for a playthrough.
// - Refactor the implementation of the map or the pathfinder.
// - Compute the RegressionId for the same playthrough. It uses the exact
// same level and inputs, but the new implementation.
// - If the RegressionId hasn't changed, the refactoring did not alter any
// split decision, any collidable placement or any computed path across the
// whole session.
// - If the RegressionId has changed, something in the refactoring now
// makes the system behave differently.
//
// How much that proves depends on the playthrough. A session that never
// splits a leaf says nothing about the split code; a session with no
// find-path events says nothing about the pathfinder. The recorded
// sessions used for regression should churn the map hard enough and ask
// for enough paths that a behavior change anywhere has a chance to reach
// the hash.
func RegressionId(p *Playthrough) string {
	hash := sha256.New()

	w := NewWorld(p.Level)
	hash.Write(w.StateBytes())

	for i := range p.History {
		w.Step(p.History[i])
		hash.Write(w.StateBytes())
	}

	hashBytes := hash.Sum(nil)
	return hex.EncodeToString(hashBytes)
}
