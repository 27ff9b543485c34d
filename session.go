package pathfind

import "github.com/google/uuid"

// Session is a World that records everything it is told. The inputs go into
// a Playthrough that can be saved, replayed and uploaded, which is how
// sessions from other machines end up in the database for debugging and
// regression runs.
type Session struct {
	World
	Playthrough   Playthrough
	User          string
	RecordingFile string
}

func NewSession(level Level, user string, recordingFile string) (s Session) {
	s.World = NewWorld(level)
	s.Playthrough.InputVersion = InputVersion
	s.Playthrough.SimulationVersion = SimulationVersion
	s.Playthrough.ReleaseVersion = ReleaseVersion
	s.Playthrough.Level = level
	s.Playthrough.Id = uuid.New()
	s.User = user
	s.RecordingFile = recordingFile
	if recordingFile != "" {
		// A recording left behind by a previous run at the same path is
		// from another session id; get rid of it rather than letting the
		// first Step overwrite it with a file that briefly mixes the two.
		DeleteFile(recordingFile)
	}
	InitializeIdInDbHttp(user, ReleaseVersion, SimulationVersion,
		InputVersion, s.Playthrough.Id)
	return
}

func (s *Session) Step(input WorldInput) {
	s.Playthrough.History = append(s.Playthrough.History, input)
	if s.RecordingFile != "" {
		// IMPORTANT: save the playthrough before stepping the World. If a
		// bug in the World causes it to crash, we want to save the input
		// that caused the bug before the program crashes.
		WriteFile(s.RecordingFile, s.Playthrough.Serialize())
	}
	s.World.Step(input)
}

// Finish uploads the recorded session. It does nothing in builds without
// the http_enabled tag.
func (s *Session) Finish() {
	UploadDataToDbHttp(s.User, ReleaseVersion, SimulationVersion,
		InputVersion, s.Playthrough.Id, s.Playthrough.Serialize())
}
