package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TaskGenerateTests 工作进程识别的任务名
const TaskGenerateTests = "worker.generate_functional_tests_job"

// TaskMessage 队列消息：任务名 + job_id，不携带其他状态
type TaskMessage struct {
	Task  string `json:"task"`
	JobID int64  `json:"job_id"`
}

type Queue struct {
	client    *redis.Client
	queueName string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Enqueue 将任务加入队列。核心侧的派发到此为止，不关心工作进程何时取走。
func (q *Queue) Enqueue(ctx context.Context, task string, jobID int64) error {
	data, err := json.Marshal(&TaskMessage{Task: task, JobID: jobID})
	if err != nil {
		return fmt.Errorf("failed to marshal task message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop 从队列获取任务（阻塞），仅工作进程调用
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*TaskMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // 超时，无任务
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg TaskMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task message: %w", err)
	}

	return &msg, nil
}

// Length 获取队列长度
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
