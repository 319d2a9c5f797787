package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/webhookbot"
)

type recorded struct {
	path        string
	contentType string
	form        url.Values
}

func newServer(t *testing.T, status int, response string, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.contentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		got.form = r.PostForm

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendMessage(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":{}}`, &got)

	reply := webhookbot.NewReply(42, "pong").WithKeyboard(
		webhookbot.Row(webhookbot.Button{Label: "More", Token: webhookbot.NewCallbackToken("more").WithOrigin(7)}),
	)
	err := New("test-token").WithBaseURL(srv.URL).SendMessage(context.Background(), reply)
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", got.path)
	assert.Equal(t, "application/x-www-form-urlencoded", got.contentType)
	assert.Equal(t, "42", got.form.Get("chat_id"))
	assert.Equal(t, "pong", got.form.Get("text"))
	assert.NotContains(t, got.form, "parse_mode")

	var markup struct {
		InlineKeyboard [][]struct {
			Text         string `json:"text"`
			CallbackData string `json:"callback_data"`
		} `json:"inline_keyboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(got.form.Get("reply_markup")), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "More", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "more/7", markup.InlineKeyboard[0][0].CallbackData)
}

func TestClient_SendMessage_ParseModeWithoutKeyboard(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":{}}`, &got)

	reply := webhookbot.NewReply(1, "*bold*").WithParseMode(webhookbot.ParseModeMarkdownV2)
	require.NoError(t, New("t").WithBaseURL(srv.URL).SendMessage(context.Background(), reply))

	assert.Equal(t, "MarkdownV2", got.form.Get("parse_mode"))
	assert.NotContains(t, got.form, "reply_markup")
}

func TestClient_APIError(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`, &got)

	err := New("test-token").WithBaseURL(srv.URL).SendMessage(context.Background(), webhookbot.NewReply(1, "x"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "sendMessage", apiErr.Method)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestClient_OKFalse(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":false,"description":"nope"}`, &got)

	err := New("t").WithBaseURL(srv.URL).SendMessage(context.Background(), webhookbot.NewReply(1, "x"))
	assert.ErrorContains(t, err, "nope")
}

func TestClient_NetworkErrorHidesToken(t *testing.T) {
	err := New("secret-token").WithBaseURL("http://127.0.0.1:1").SendMessage(context.Background(), webhookbot.NewReply(1, "x"))

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestClient_HonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := New("tok").WithBaseURL(srv.URL).SendMessage(ctx, webhookbot.NewReply(1, "x"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_SetWebhook(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":true}`, &got)

	err := New("tok").WithBaseURL(srv.URL).SetWebhook(context.Background(), "https://bot.example.com/", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "/bottok/setWebhook", got.path)
	assert.Equal(t, "https://bot.example.com/", got.form.Get("url"))
	assert.Equal(t, "s3cret", got.form.Get("secret_token"))
	assert.JSONEq(t, `["message","edited_message","callback_query"]`, got.form.Get("allowed_updates"))
}

func TestClient_SetWebhook_NoSecret(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":true}`, &got)

	require.NoError(t, New("tok").WithBaseURL(srv.URL).SetWebhook(context.Background(), "https://bot.example.com/", ""))
	assert.NotContains(t, got.form, "secret_token")
}

func TestClient_DeleteWebhook(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":true}`, &got)

	require.NoError(t, New("tok").WithBaseURL(srv.URL).DeleteWebhook(context.Background()))
	assert.Equal(t, "/bottok/deleteWebhook", got.path)
}
