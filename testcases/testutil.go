package testcases

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/slotagent/config"
	"github.com/tbxark/slotagent/types"
)

func InitChatModel(t *testing.T) *openai.ChatModel {
	t.Helper()
	if os.Getenv("SLOTAGENT_RUN_LIVE_TESTS") != "1" {
		t.Skip("set SLOTAGENT_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}
	conf, err := config.Load("../config.yaml")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	chatModel, err := conf.NewChatModel(context.Background())
	if err != nil {
		t.Skipf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

func ContactFields() []types.FieldSpec {
	return []types.FieldSpec{
		{Name: "name", Question: "What is your name?"},
		{Name: "phone", Question: "What is your contact number?"},
		{Name: "email", Question: "What is your email address?"},
	}
}
