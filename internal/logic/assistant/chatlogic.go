package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tempo/internal/errorx"
	"tempo/internal/svc"
	"tempo/internal/types"
	"tempo/internal/upstream"
	"tempo/internal/upstream/llm"

	"github.com/zeromicro/go-zero/core/logx"
)

const systemPrompt = `You are the Tempo assistant. Tempo aggregates DeFi yields and DePIN device
rewards across EVM chains and moves funds between them with Wormhole.
Help users understand bridge fees and transfer status, device earnings, ROI
and yield projections, and wallet balances. Keep answers short and concrete.
Never ask for private keys or seed phrases. You do not give financial advice;
say so when asked what to buy.`

var roles = map[string]bool{
	"user":      true,
	"assistant": true,
}

type ChatLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Chat forwards the conversation to the LLM gateway behind the Tempo system
// prompt and returns the reply text.
func (l *ChatLogic) Chat(req *types.ChatReq) (*types.ChatResp, error) {
	messages, err := l.buildMessages(req.Messages)
	if err != nil {
		return nil, err
	}

	reply, err := l.svcCtx.Llm.Complete(l.ctx, l.svcCtx.Config.Llm.Model, messages)
	if err != nil {
		l.Errorf("llm completion: %v", err)
		switch upstream.StatusCode(err) {
		case http.StatusTooManyRequests:
			return nil, errorx.TooManyRequests("assistant is busy, please try again later")
		case http.StatusPaymentRequired:
			return nil, errorx.New(http.StatusPaymentRequired, "assistant credits exhausted")
		default:
			return nil, errorx.BadGateway("assistant is unavailable")
		}
	}

	return &types.ChatResp{Reply: reply}, nil
}

func (l *ChatLogic) buildMessages(in []types.ChatMessage) ([]llm.Message, error) {
	if len(in) == 0 {
		return nil, errorx.BadRequest("messages is required")
	}
	if limit := l.svcCtx.Config.Llm.MaxMessages; limit > 0 && len(in) > limit {
		return nil, errorx.BadRequest(fmt.Sprintf("at most %d messages are allowed", limit))
	}

	out := make([]llm.Message, 0, len(in)+1)
	out = append(out, llm.Message{Role: "system", Content: systemPrompt})
	for i, m := range in {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if !roles[role] {
			return nil, errorx.BadRequest(fmt.Sprintf("message %d: role must be user or assistant", i))
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, errorx.BadRequest(fmt.Sprintf("message %d: content is empty", i))
		}
		out = append(out, llm.Message{Role: role, Content: content})
	}
	return out, nil
}
