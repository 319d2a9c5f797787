package webhookbot_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/bjaus/webhookbot"
)

func Example() {
	b := webhookbot.NewBuilder()
	_ = b.RegisterCommand("echo", webhookbot.CommandFunc(func(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
		return webhookbot.NewReply(msg.ChatID, msg.Text), nil
	}))
	_ = b.RegisterCommand("upper", webhookbot.CommandFunc(func(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
		return webhookbot.NewReply(msg.ChatID, strings.ToUpper(msg.Text)), nil
	}))
	_ = b.EnableCurrentProbe()

	d := webhookbot.New(b.Build())
	ctx := context.Background()

	for _, text := range []string{"hello", "/upper", "/current", "hello"} {
		body := fmt.Sprintf(`{"update_id": 1, "message": {"message_id": 1, "text": %q, "chat": {"id": 42}}}`, text)
		reply, err := d.Process(ctx, []byte(body))
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println(reply.Text)
	}

	// Output:
	// hello
	// Command set to upper
	// upper
	// HELLO
}

func ExampleParseCallbackToken() {
	tok, err := webhookbot.ParseCallbackToken("more/99")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(tok.Command, *tok.Origin)
	fmt.Println(webhookbot.NewCallbackToken("more"))

	// Output:
	// more 99
	// more
}

func ExampleDispatcher_Dispatch() {
	b := webhookbot.NewBuilder()
	_ = b.RegisterInline("ping", webhookbot.CommandFunc(func(ctx context.Context, msg webhookbot.Message) (webhookbot.Reply, error) {
		button := webhookbot.Button{
			Label: "More",
			Token: webhookbot.NewCallbackToken("more").WithOrigin(uint64(msg.ID)),
		}
		return webhookbot.NewReply(msg.ChatID, "pong").WithKeyboard(webhookbot.Row(button)), nil
	}))
	d := webhookbot.New(b.Build())

	reply, err := d.Dispatch(context.Background(), webhookbot.Update{
		ID:       1,
		Contents: webhookbot.PlainMessage{Message: webhookbot.Message{ID: 7, Text: "ping", ChatID: 42}},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(reply.Text, reply.Keyboard[0][0].Token)

	// Output:
	// pong more/7
}
