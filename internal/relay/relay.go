// Package relay implements the conversation service: the sequencing of
// reads and writes against the message store and the single completion call
// that make up one chat turn, plus the history fetch and clear operations.
//
// The service holds no cache and no cross-request state; every operation
// re-reads from the store when it needs context. Two concurrent chat turns
// for the same owner are not mutually excluded — the store's created_at
// column is the sole source of ordering truth.
package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rinhq/rin/internal/completion"
	"github.com/rinhq/rin/internal/message"
)

// emptyReply is substituted when the upstream completion comes back empty.
// Chat never fails on an empty completion.
const emptyReply = "…"

// Store is the narrow persistence surface the relay consumes.
// Interfaces are defined by the consumer, not the provider; *message.Store
// satisfies this.
type Store interface {
	// Insert appends one row for the owner.
	Insert(ctx context.Context, uid, role, content string) error

	// Recent returns up to limit of the owner's newest rows, ordered
	// ascending by creation time.
	Recent(ctx context.Context, uid string, limit int32) ([]message.Message, error)

	// Purge deletes every row for the owner.
	Purge(ctx context.Context, uid string) error
}

// Completer maps a role-tagged message sequence to one generated reply.
// *completion.Client satisfies this; tests substitute a double.
type Completer interface {
	Complete(ctx context.Context, messages []completion.Message) (string, error)
}

// Config carries the fixed conversation parameters. Constructed once at
// startup from the application config.
type Config struct {
	// SystemPrompt is prepended to every conversation window.
	SystemPrompt string

	// ContextMessages caps how many prior rows feed the completion window.
	ContextMessages int32

	// HistoryLimit caps the History operation. Independent from
	// ContextMessages by design: one serves model context economy, the
	// other UI display.
	HistoryLimit int32
}

// Service sequences store and completion calls for one conversation owner.
//
// Service is safe for concurrent use; it has no mutable state of its own.
type Service struct {
	store     Store
	completer Completer
	cfg       Config
	logger    *slog.Logger
}

// New creates a Service. A nil logger falls back to slog.Default().
func New(store Store, completer Completer, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		completer: completer,
		cfg:       cfg,
		logger:    logger,
	}
}

// History returns the owner's persisted rows, oldest first, capped at the
// configured history limit. No side effects.
func (s *Service) History(ctx context.Context, uid string) ([]message.Message, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid required", ErrInvalidRequest)
	}

	messages, err := s.store.Recent(ctx, uid, s.cfg.HistoryLimit)
	if err != nil {
		return nil, &StoreError{Op: "loading history", Err: err}
	}
	return messages, nil
}

// Clear deletes every row for the owner. Clearing an owner with no rows
// succeeds silently.
func (s *Service) Clear(ctx context.Context, uid string) error {
	if uid == "" {
		return fmt.Errorf("%w: uid required", ErrInvalidRequest)
	}

	if err := s.store.Purge(ctx, uid); err != nil {
		return &StoreError{Op: "clearing history", Err: err}
	}

	s.logger.Debug("cleared history", "uid", uid)
	return nil
}

// Chat runs one conversation turn, in strict sequence:
//
//  1. Load up to ContextMessages of the owner's newest rows, oldest first.
//  2. Assemble the window: system prompt, prior rows, the new user text.
//  3. Persist the user row. The window reflects state before this write.
//  4. Call the completion endpoint with the window.
//  5. Substitute a placeholder if the completion came back empty.
//  6. Persist the assistant row.
//  7. Return the reply.
//
// There is no rollback: a failure after step 3 leaves the user row
// persisted. Duplicate or orphaned user rows are an accepted cost of the
// non-transactional design, not a bug to hide.
func (s *Service) Chat(ctx context.Context, uid, text string) (string, error) {
	if uid == "" || text == "" {
		return "", fmt.Errorf("%w: text and uid required", ErrInvalidRequest)
	}

	history, err := s.store.Recent(ctx, uid, s.cfg.ContextMessages)
	if err != nil {
		return "", &StoreError{Op: "loading context", Err: err}
	}

	window := s.window(history, text)

	if err := s.store.Insert(ctx, uid, message.RoleUser, text); err != nil {
		return "", &StoreError{Op: "saving user message", Err: err}
	}

	reply, err := s.completer.Complete(ctx, window)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	if reply == "" {
		reply = emptyReply
	}

	if err := s.store.Insert(ctx, uid, message.RoleAssistant, reply); err != nil {
		return "", &StoreError{Op: "saving assistant message", Err: err}
	}

	s.logger.Debug("chat turn completed",
		"uid", uid,
		"context_messages", len(history),
		"reply_bytes", len(reply))
	return reply, nil
}

// window assembles the request-scoped conversation window: the fixed system
// instruction, the retrieved rows in their returned order, then the new user
// entry. It never includes the row inserted by the current turn.
func (s *Service) window(history []message.Message, text string) []completion.Message {
	window := make([]completion.Message, 0, len(history)+2)
	window = append(window, completion.Message{
		Role:    message.RoleSystem,
		Content: s.cfg.SystemPrompt,
	})
	for _, m := range history {
		window = append(window, completion.Message{Role: m.Role, Content: m.Content})
	}
	window = append(window, completion.Message{
		Role:    message.RoleUser,
		Content: text,
	})
	return window
}
