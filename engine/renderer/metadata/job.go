package metadata

/** @brief Describes a type of job */
type JobType int

const (
	/**
	 * @brief A general job that does not have any specific thread requirements.
	 * This means it matters little which job thread this job runs on.
	 */
	JOB_TYPE_GENERAL JobType = 0x02
	/**
	 * @brief A resource loading job. Resources should always load on the same thread
	 * to avoid potential disk thrashing.
	 */
	JOB_TYPE_RESOURCE_LOAD JobType = 0x04
)

/**
 * @brief Determines which job queue a job uses.
 */
type JobPriority int

const (
	/** @brief The lowest-priority job, used for things that can wait to be done if need be, such as log flushing. */
	JOB_PRIORITY_LOW JobPriority = iota
	/** @brief A normal-priority job. Should be used for medium-priority tasks such as cost queries. */
	JOB_PRIORITY_NORMAL
	/** @brief The highest-priority job. Should be used sparingly, and only for time-critical operations.*/
	JOB_PRIORITY_HIGH
)

/**
 * @brief Describes a job to be run. OnStart receives InputParams and
 * publishes its result on the channel, which is then handed to
 * OnComplete or OnFailure depending on the returned error.
 */
type JobTask struct {
	JobType     JobType
	Priority    JobPriority
	InputParams []interface{}
	/** @brief Invoked when the job starts. Required. */
	OnStart func(params interface{}, resultChan chan<- interface{}) error
	/** @brief Invoked with the published result when OnStart succeeds. Optional. */
	OnComplete func(resultChan <-chan interface{})
	/** @brief Invoked with the published result when OnStart fails. Optional. */
	OnFailure func(resultChan <-chan interface{})
	/** @brief Invoked last, whatever the outcome. Optional. */
	OnCompletionCallback func()
}
