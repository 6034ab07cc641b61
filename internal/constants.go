package internal

const (
	WorkflowNameBackup  = "nomad.backup"
	WorkflowNameRestore = "nomad.restore"

	// Activity names match the method names on activities.Activities
	ActivityNameListJobs         = "ListJobsActivity"
	ActivityNameFetchDefinitions = "FetchDefinitionsActivity"
	ActivityNameWriteBackup      = "WriteBackupActivity"
	ActivityNameRestoreJobs      = "RestoreJobsActivity"
)
