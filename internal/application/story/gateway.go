package story

import "context"

// CompletionRequest 发往模型网关的单次补全请求。
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	Seed         int
}

// CompletionResult 网关返回的补全结果,Fallback 标记是否由降级模型产出。
type CompletionResult struct {
	Content  string
	Model    string
	Fallback bool
}

// CompletionGateway 模型网关端口,由基础设施层实现(含配额降级逻辑)。
type CompletionGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// Dispatcher 成稿通知端口,投递失败不影响生成结果。
type Dispatcher interface {
	Dispatch(storyText string)
}
