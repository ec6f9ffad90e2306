package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ghosted34/natours-nest/internal/core/ports"
)

type recordingMailer struct {
	mu        sync.Mutex
	delivered []ports.EmailJob
	fail      bool
	notify    chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{notify: make(chan struct{}, 64)}
}

func (m *recordingMailer) record(job ports.EmailJob) error {
	m.mu.Lock()
	m.delivered = append(m.delivered, job)
	fail := m.fail
	m.mu.Unlock()
	m.notify <- struct{}{}
	if fail {
		return errors.New("smtp down")
	}
	return nil
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, firstName, link string) error {
	return m.record(ports.EmailJob{Kind: ports.EmailVerification, To: to, FirstName: firstName, Link: link})
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, link, firstName string) error {
	return m.record(ports.EmailJob{Kind: ports.EmailPasswordReset, To: to, FirstName: firstName, Link: link})
}

func (m *recordingMailer) SendOTPEmail(_ context.Context, to, otp string) error {
	return m.record(ports.EmailJob{Kind: ports.EmailOTP, To: to, OTP: otp})
}

func (m *recordingMailer) wait(t *testing.T, n int) []ports.EmailJob {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.EmailJob, len(m.delivered))
	copy(out, m.delivered)
	return out
}

func TestDispatcher_DeliversByKind(t *testing.T) {
	mailer := newRecordingMailer()
	d := NewDispatcher(2, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.EmailJob{Kind: ports.EmailVerification, To: "a@example.com", FirstName: "A", Link: "https://x/verify"})
	d.Enqueue(ports.EmailJob{Kind: ports.EmailPasswordReset, To: "b@example.com", FirstName: "B", Link: "https://x/reset"})
	d.Enqueue(ports.EmailJob{Kind: ports.EmailOTP, To: "c@example.com", OTP: "12345"})

	delivered := mailer.wait(t, 3)
	kinds := map[ports.EmailKind]int{}
	for _, job := range delivered {
		kinds[job.Kind]++
	}
	if kinds[ports.EmailVerification] != 1 || kinds[ports.EmailPasswordReset] != 1 || kinds[ports.EmailOTP] != 1 {
		t.Fatalf("unexpected deliveries: %+v", delivered)
	}
}

func TestDispatcher_SameRecipientKeepsOrder(t *testing.T) {
	mailer := newRecordingMailer()
	d := NewDispatcher(4, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 5; i++ {
		d.Enqueue(ports.EmailJob{Kind: ports.EmailOTP, To: "same@example.com", OTP: string(rune('0' + i))})
	}

	delivered := mailer.wait(t, 5)
	for i, job := range delivered {
		if job.OTP != string(rune('0'+i)) {
			t.Fatalf("out of order at %d: %+v", i, delivered)
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	mailer := newRecordingMailer()
	mailer.fail = true
	d := NewDispatcher(1, mailer, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(ports.EmailJob{Kind: ports.EmailOTP, To: "x@example.com", OTP: "11111"})
	mailer.wait(t, 1)

	mailer.mu.Lock()
	mailer.fail = false
	mailer.mu.Unlock()

	d.Enqueue(ports.EmailJob{Kind: ports.EmailOTP, To: "x@example.com", OTP: "22222"})
	delivered := mailer.wait(t, 1)
	if delivered[len(delivered)-1].OTP != "22222" {
		t.Fatalf("worker did not survive a failed delivery: %+v", delivered)
	}
}
