package pipeline

import (
	"github.com/samber/lo"

	"github.com/forPelevin/asrprep/internal/usecase"
)

// StatusCancelled marks recordings never dispatched because the run was
// interrupted.
const StatusCancelled usecase.Status = "cancelled"

type Outcome struct {
	ID         string         `json:"id"`
	Folder     string         `json:"folder"`
	Status     usecase.Status `json:"status"`
	Cues       int            `json:"cues,omitempty"`
	DurationMS int64          `json:"duration_ms,omitempty"`
	Check      string         `json:"check,omitempty"`
	Value      float64        `json:"value,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Stage      string         `json:"stage,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type Report struct {
	RunID      string    `json:"run_id"`
	Recordings []Outcome `json:"recordings"`
}

func (r Report) Count(status usecase.Status) int {
	return lo.CountBy(r.Recordings, func(o Outcome) bool { return o.Status == status })
}

// Failed returns the recordings that ended in an error.
func (r Report) Failed() []Outcome {
	return lo.Filter(r.Recordings, func(o Outcome, _ int) bool { return o.Status == usecase.StatusFailed })
}

func newOutcome(job Job, res usecase.Result, err error) Outcome {
	out := Outcome{
		ID:         job.ID,
		Folder:     job.Folder,
		Status:     res.Status,
		Cues:       res.Cues,
		DurationMS: res.DurationMS,
	}
	if err != nil {
		out.Status = usecase.StatusFailed
		out.Stage = usecase.StageOf(err)
		out.Error = err.Error()
		return out
	}
	if res.Status == usecase.StatusRejected {
		out.Check = res.Verdict.Check
		out.Value = res.Verdict.Value
		out.Reason = res.Verdict.Reason
	}
	return out
}
