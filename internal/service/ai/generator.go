package ai

import "context"

// Prompt 是一次模型调用的输入：系统指令与用户文本。
type Prompt struct {
	System string
	User   string
}

// Generator 是与具体模型供应商无关的文本生成接口。
// 失败时返回 *Error，调用方通过 Kind 区分配置错误与临时错误。
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// ModelInfo 描述供应商提供的一个可用模型。
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelLister 由能够列出可用模型的 Generator 实现。
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
