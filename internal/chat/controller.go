package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/lucamoroni/kaiwa/internal/llm"
)

// UI is the surface the controller drives between turns. The transport
// layer implements it on top of the session's outbound channel.
type UI interface {
	SetInputEnabled(enabled bool)
	PublishSuggestions(suggestions []Suggestion)
	RequireCredentials()
}

// ControllerConfig carries the per-turn pacing and fallback copy.
type ControllerConfig struct {
	// PreTurnDelay runs before the placeholder appears on every turn
	// after the first, so replies never feel instantaneous.
	PreTurnDelay time.Duration

	// DefaultSuggestions replace an empty suggestion set after a turn.
	DefaultSuggestions []Suggestion

	StartErrorText   string
	SendErrorText    string
	SummaryErrorText string
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		PreTurnDelay: 800 * time.Millisecond,
		DefaultSuggestions: []Suggestion{
			{Label: "举个例子吧！", Value: "举个例子吧！"},
			{Label: "继续讲下去", Value: "继续讲下去"},
			{Label: "我来试试看！", Value: "我来试试看！"},
		},
		StartErrorText:   "哎呀，连接出了点问题，请重试 😵",
		SendErrorText:    "老师有点累了（连接错误），请稍后再试 😷",
		SummaryErrorText: "抱歉，总结的时候好像出了一点小问题... 😵",
	}
}

// Controller owns a single conversation turn end to end: it locks input,
// drains the model response, and hands the segmented reply to the
// scheduler for paced reveal.
type Controller struct {
	log       *Log
	client    llm.Client
	history   *History
	scheduler *Scheduler
	ui        UI
	cfg       ControllerConfig
	sleep     SleepFunc
}

func NewController(log *Log, client llm.Client, history *History, scheduler *Scheduler, ui UI, cfg ControllerConfig, sleep SleepFunc) *Controller {
	if sleep == nil {
		sleep = Sleep
	}
	if cfg.PreTurnDelay < 0 {
		cfg.PreTurnDelay = 0
	}
	return &Controller{
		log:       log,
		client:    client,
		history:   history,
		scheduler: scheduler,
		ui:        ui,
		cfg:       cfg,
		sleep:     sleep,
	}
}

// RunTurn feeds the prompt to the model and plays the reply back as bubbles.
// The prompt is recorded in the transcript; echoing a visible user bubble is
// the caller's job, before this is invoked. Input stays locked for the whole
// turn and is re-enabled on every exit path except a superseded epoch.
func (c *Controller) RunTurn(ctx context.Context, prompt string, firstTurn bool) error {
	epoch := c.log.Epoch()

	c.ui.SetInputEnabled(false)
	c.ui.PublishSuggestions(nil)

	if !firstTurn && c.cfg.PreTurnDelay > 0 {
		if err := c.sleep(ctx, c.cfg.PreTurnDelay); err != nil {
			return err
		}
	}

	placeholder := NewPlaceholder()
	if !c.log.Append(epoch, placeholder) {
		return nil
	}

	c.history.User(prompt)

	full, err := c.client.StreamChat(ctx, c.history.Messages(), nil)
	if err != nil {
		c.log.Remove(epoch, placeholder.ID)
		c.failTurn(epoch, err, firstTurn)
		return fmt.Errorf("stream turn: %w", err)
	}

	c.history.Assistant(full)

	segments, suggestions := Segment(full)
	if err := c.scheduler.Play(ctx, epoch, segments, placeholder.ID); err != nil {
		return fmt.Errorf("play turn: %w", err)
	}

	if c.log.Epoch() != epoch {
		return nil
	}
	if len(suggestions) == 0 {
		suggestions = c.cfg.DefaultSuggestions
	}
	c.ui.PublishSuggestions(suggestions)
	c.ui.SetInputEnabled(true)
	return nil
}

const summarySystemPrompt = "You are a helpful Japanese language teaching assistant."

// RunSummary asks for a lesson summary in a single non-streamed call and
// appends it as one summary bubble, bypassing the playback scheduler. The
// prompt carries the conversation transcript itself, so the call runs in a
// fresh context instead of the tutoring history.
func (c *Controller) RunSummary(ctx context.Context, prompt string) error {
	epoch := c.log.Epoch()

	c.ui.SetInputEnabled(false)

	messages := []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: summarySystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	text, err := c.client.Complete(ctx, messages)
	if err != nil {
		if llm.IsCredentialError(err) {
			c.ui.RequireCredentials()
		} else {
			c.appendErrorBubble(epoch, c.cfg.SummaryErrorText)
		}
		c.ui.SetInputEnabled(true)
		return fmt.Errorf("summary: %w", err)
	}

	summary := NewPlaceholder()
	summary.Text = text
	summary.Streaming = false
	summary.Kind = KindSummary
	c.log.Append(epoch, summary)

	if c.log.Epoch() == epoch {
		c.ui.SetInputEnabled(true)
	}
	return nil
}

// failTurn handles the two failure classes after the placeholder has been
// removed. Credential failures prompt for a key without leaving a bubble;
// everything else leaves one apologetic bubble in the chat.
func (c *Controller) failTurn(epoch uint64, cause error, firstTurn bool) {
	if llm.IsCredentialError(cause) {
		c.ui.RequireCredentials()
	} else {
		text := c.cfg.SendErrorText
		if firstTurn {
			text = c.cfg.StartErrorText
		}
		c.appendErrorBubble(epoch, text)
	}
	if c.log.Epoch() == epoch {
		c.ui.SetInputEnabled(true)
	}
}

func (c *Controller) appendErrorBubble(epoch uint64, text string) {
	bubble := NewPlaceholder()
	bubble.Text = text
	bubble.Streaming = false
	c.log.Append(epoch, bubble)
}
