package controller

// Notifier reports the outcome of user actions. Failure receives the action
// name ("delete list") and the error; it decides what to show.
type Notifier interface {
	Success(action string)
	Failure(action string, err error)
}

type NopNotifier struct{}

func (NopNotifier) Success(string)        {}
func (NopNotifier) Failure(string, error) {}
