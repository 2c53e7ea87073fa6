package logger

import "time"

// StageLogger returns a logger tagged with the pipeline stage and run id
func StageLogger(base Logger, stage, runID string) Logger {
	if base == nil {
		base = GetLogger()
	}
	return base.WithFields(map[string]interface{}{
		"stage":  stage,
		"run_id": runID,
	})
}

// LogStageStart logs the parameters a stage was started with
func LogStageStart(l Logger, params map[string]interface{}) {
	l.InfoWithFields("Stage started", params)
}

// LogStageDone logs the result counts of a finished stage
func LogStageDone(l Logger, started time.Time, counts map[string]interface{}) {
	fields := map[string]interface{}{
		"duration": time.Since(started).Round(time.Millisecond),
	}
	for k, v := range counts {
		fields[k] = v
	}
	l.InfoWithFields("Stage completed", fields)
}

// LogTruncated logs a listing that stopped early because of a remote error.
// kept is the number of items gathered before the failure.
func LogTruncated(l Logger, kind, parent string, kept int, err error) {
	l.WithError(err).WarnWithFields("Listing truncated by API error", map[string]interface{}{
		"kind":   kind,
		"parent": parent,
		"kept":   kept,
	})
}
