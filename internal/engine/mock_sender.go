package engine

import (
	"context"
	"sync"
)

// sentMessage captures one delivery made through the mock sender.
type sentMessage struct {
	To      string
	Subject string
	Body    string
}

// mockSender records messages instead of delivering them. Used by tests to
// assert which notifications an operation produced.
type mockSender struct {
	failWith error
	sent     []sentMessage
	mu       sync.Mutex
}

func (m *mockSender) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMessage{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *mockSender) messagesTo(addr string) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, msg := range m.sent {
		if msg.To == addr {
			out = append(out, msg)
		}
	}
	return out
}

func (m *mockSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mockSender) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
