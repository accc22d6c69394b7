package compose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/echomi/echomi-ai-platform/internal/llm"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.reply}, nil
}

func TestSpeakDigits(t *testing.T) {
	assert.Equal(t, "4 8 2 1", SpeakDigits("4821"))
	assert.Equal(t, "4 8 2 9 1 3", SpeakDigits("482913"))
	assert.Equal(t, "4 8 2 1", SpeakDigits(" 48-21 "))
	assert.Equal(t, "", SpeakDigits(""))
	assert.Equal(t, "", SpeakDigits("abcd"))
}

func TestSpeakPhone(t *testing.T) {
	assert.Equal(t, "+91 9 8 7 6 5 4 3 2 1 0", SpeakPhone("+919876543210"))
	assert.Equal(t, "9 8 7 6 5 4 3 2 1 0", SpeakPhone("9876543210"))
}

func TestComposeTemplateOnly(t *testing.T) {
	c := New(nil, nil)

	reply := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821", Company: "zomato"})
	assert.Contains(t, reply, "4 8 2 1")
	assert.Contains(t, reply, "zomato")
	assert.NotContains(t, reply, "4821", "codes are always spoken digit by digit")
}

func TestComposeCaveat(t *testing.T) {
	c := New(nil, nil)

	confident := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821"})
	assert.NotContains(t, confident, caveatEN)

	hedged := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821", Caveat: true})
	assert.Contains(t, hedged, "4 8 2 1")
	assert.Contains(t, hedged, caveatEN)
}

func TestComposeForwardedReadsCallback(t *testing.T) {
	c := New(nil, nil)

	reply := c.Compose(context.Background(), ReplyForwardedForApproval, Context{Callback: "9876543210"})
	assert.Contains(t, reply, "9 8 7 6 5 4 3 2 1 0")

	declined := c.Compose(context.Background(), ReplyForwardedForApproval, Context{})
	assert.Contains(t, declined, "get back to you")
}

func TestComposeHindiTemplates(t *testing.T) {
	c := New(nil, nil)

	reply := c.Compose(context.Background(), ReplyDeliverOTP, Context{Language: "hi", OTP: "4821", Caveat: true})
	assert.Contains(t, reply, "4 8 2 1")
	assert.Contains(t, reply, caveatHI)

	ask := c.Compose(context.Background(), ReplyAskCompany, Context{Language: "hi"})
	assert.Contains(t, strings.ToLower(ask), "company")
}

func TestComposeLLMKeepsTokens(t *testing.T) {
	fake := &fakeLLM{reply: "Sure thing! Your code for the zomato order is 4 8 2 1, good luck out there."}
	c := New(fake, nil)

	reply := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821", Company: "zomato"})
	assert.Equal(t, fake.reply, reply)
}

func TestComposeLLMDropsTokenFallsBack(t *testing.T) {
	fake := &fakeLLM{reply: "Here is your code, have a nice day!"}
	c := New(fake, nil)

	reply := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821"})
	assert.Contains(t, reply, "4 8 2 1", "template fallback must carry the code")
}

func TestComposeLLMErrorFallsBack(t *testing.T) {
	fake := &fakeLLM{err: errors.New("quota exhausted")}
	c := New(fake, nil)

	reply := c.Compose(context.Background(), ReplyAskRole, Context{})
	assert.NotEmpty(t, reply)
}

func TestComposeLLMRunawayReplyFallsBack(t *testing.T) {
	fake := &fakeLLM{reply: strings.Repeat("very ", 80) + "long 4 8 2 1"}
	c := New(fake, nil)

	reply := c.Compose(context.Background(), ReplyDeliverOTP, Context{OTP: "4821"})
	assert.NotEqual(t, fake.reply, reply)
	assert.Contains(t, reply, "4 8 2 1")
}

func TestComposeNonPolishableSkipsLLM(t *testing.T) {
	fake := &fakeLLM{reply: "should never be used"}
	c := New(fake, nil)

	reply := c.Compose(context.Background(), ReplyClarify, Context{})
	assert.NotEqual(t, fake.reply, reply)
}

func TestComposeNavigation(t *testing.T) {
	c := New(nil, nil)
	reply := c.Compose(context.Background(), ReplyDeliverNavigation, Context{
		RouteSummary: "2.3 km, about 9 minutes",
		RouteSteps:   "Head out on Kasturba Road. Turn left onto MG Road",
	})
	assert.Contains(t, reply, "2.3 km, about 9 minutes")
	assert.Contains(t, reply, "Turn left onto MG Road")
}
