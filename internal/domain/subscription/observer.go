package subscription

import "github.com/homerent/server/internal/model"

// Observer receives lifecycle and sweep events for instrumentation.
type Observer interface {
	ObserveTransition(action model.HistoryAction)
	ObserveSweep(result *model.SweepResult)
}

type nopObserver struct{}

func (nopObserver) ObserveTransition(model.HistoryAction) {}
func (nopObserver) ObserveSweep(*model.SweepResult)       {}
