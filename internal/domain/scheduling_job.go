package domain

import "time"

// SchedulingJob: 通过 scheduling_queue 投递给 worker 的异步排期任务
// Programs 是提交时节目表的快照，worker 不需要访问数据库
type SchedulingJob struct {
	ID         string               `json:"id"`
	Email      string               `json:"email"`
	Parameters SchedulingParameters `json:"parameters"`
	Programs   []Program            `json:"programs"`
	CreatedAt  time.Time            `json:"createdAt"`
}
