package requestctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestContextRoundTrip(t *testing.T) {
	rc := &Context{UserID: uuid.New(), Email: "builder@example.com"}

	ctx := WithContext(context.Background(), rc)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got.UserID != rc.UserID || got.Email != rc.Email {
		t.Fatalf("identity mangled: %+v", got)
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("want no identity on a bare context")
	}
	if _, ok := FromContext(nil); ok {
		t.Fatal("want no identity on a nil context")
	}
}
