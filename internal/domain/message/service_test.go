package message

import (
	"context"
	"testing"
)

type repoStub struct {
	created []*Message
}

func (r *repoStub) Create(_ context.Context, m *Message) error {
	r.created = append(r.created, m)
	return nil
}

func (r *repoStub) List(context.Context) ([]*Message, error) {
	return r.created, nil
}

func TestCreateNormalizesFields(t *testing.T) {
	repo := &repoStub{}
	svc := NewService(repo)

	m, err := svc.Create(context.Background(), &CreateRequest{
		Name:    "  Jordan Lee ",
		Email:   " Jordan@Example.COM ",
		Message: "  I would like to talk about a commission.  ",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if m.Name != "Jordan Lee" {
		t.Fatalf("name not trimmed: %q", m.Name)
	}
	if m.Email != "jordan@example.com" {
		t.Fatalf("email not normalized: %q", m.Email)
	}
	if m.Message != "I would like to talk about a commission." {
		t.Fatalf("message not trimmed: %q", m.Message)
	}
	if m.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected generated id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one stored message")
	}
}
