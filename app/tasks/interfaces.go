package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the admin API to manage background cache
// refreshes.
// Example usage:
//
//	scheduler := NewScheduler(aggregator, categories, opts)
//	scheduler.Start()
//	defer scheduler.Stop()
//	id, err := scheduler.RefreshCategory("economics")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RefreshCategory(category string) (string, error)
}
