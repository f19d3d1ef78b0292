package browser

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/law-makers/leadcrawl/internal/auth"
	"github.com/law-makers/leadcrawl/internal/linkedin"
)

type fakeForm struct {
	calls  []string
	url    string
	failOn string
	filled map[string]string
}

func (f *fakeForm) record(call string) error {
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeForm) Navigate(_ context.Context, url string) error {
	return f.record("navigate " + url)
}

func (f *fakeForm) Fill(_ context.Context, selector, value string) error {
	if f.filled == nil {
		f.filled = map[string]string{}
	}
	f.filled[selector] = value
	return f.record("fill " + selector)
}

func (f *fakeForm) Click(_ context.Context, selector string) error {
	return f.record("click " + selector)
}

func (f *fakeForm) CurrentURL(context.Context) (string, error) {
	return f.url, f.record("location")
}

func TestSignIn(t *testing.T) {
	creds := auth.Credentials{Email: "me@example.com", Password: "s3cret"}

	var slept []time.Duration
	opts := SignInOptions{
		SettleDelay: time.Millisecond,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	page := &fakeForm{url: "https://www.linkedin.com/feed/"}
	if err := SignIn(context.Background(), page, creds, opts); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	want := []string{
		"navigate " + linkedin.LoginURL,
		"fill " + linkedin.UsernameSelector,
		"fill " + linkedin.PasswordSelector,
		"click " + linkedin.SubmitSelector,
		"location",
	}
	if !reflect.DeepEqual(page.calls, want) {
		t.Errorf("calls = %v, want %v", page.calls, want)
	}
	if page.filled[linkedin.PasswordSelector] != "s3cret" {
		t.Errorf("password not filled: %v", page.filled)
	}
	wantSleeps := []time.Duration{2 * time.Millisecond, time.Millisecond, 5 * time.Millisecond}
	if !reflect.DeepEqual(slept, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", slept, wantSleeps)
	}
}

func TestSignInChallenge(t *testing.T) {
	creds := auth.Credentials{Email: "me@example.com", Password: "s3cret"}
	quiet := func(context.Context, time.Duration) error { return nil }
	challenge := "https://www.linkedin.com/checkpoint/challenge/abc"

	prompted := false
	opts := SignInOptions{Sleep: quiet, Prompt: func(string) error {
		prompted = true
		return nil
	}}
	if err := SignIn(context.Background(), &fakeForm{url: challenge}, creds, opts); err != nil {
		t.Fatalf("SignIn with prompt: %v", err)
	}
	if !prompted {
		t.Error("expected the challenge prompt")
	}

	err := SignIn(context.Background(), &fakeForm{url: challenge}, creds, SignInOptions{Sleep: quiet})
	if !errors.Is(err, ErrSignIn) {
		t.Errorf("challenge without prompt: err = %v", err)
	}
}

func TestSignInErrors(t *testing.T) {
	quiet := func(context.Context, time.Duration) error { return nil }
	creds := auth.Credentials{Email: "me@example.com", Password: "s3cret"}

	if err := SignIn(context.Background(), &fakeForm{}, auth.Credentials{Email: "x"}, SignInOptions{Sleep: quiet}); !errors.Is(err, ErrSignIn) || !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("invalid creds: err = %v", err)
	}

	page := &fakeForm{failOn: "click " + linkedin.SubmitSelector}
	if err := SignIn(context.Background(), page, creds, SignInOptions{Sleep: quiet}); !errors.Is(err, ErrSignIn) {
		t.Errorf("submit failure: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := SignIn(ctx, &fakeForm{}, creds, SignInOptions{SettleDelay: time.Hour}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

func TestSelectContract(t *testing.T) {
	page := &fakeForm{}
	var slept time.Duration
	err := SelectContract(context.Background(), page, SignInOptions{Sleep: func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}})
	if err != nil {
		t.Fatalf("SelectContract: %v", err)
	}
	if len(page.calls) != 1 || page.calls[0] != "click "+linkedin.ContractSelector {
		t.Errorf("calls = %v", page.calls)
	}
	if slept != 4*time.Second {
		t.Errorf("slept %v", slept)
	}
}
