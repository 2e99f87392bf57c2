package sysaction

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnknownAction is returned when no registered handler claims an action.
var ErrUnknownAction = errors.New("unknown system action")

// StateDB is the state access a handler may use: point reads and writes of
// 32-byte words under an owner address. Commit and revert belong to the host.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)
}

// Context carries information available to a system-action handler.
type Context struct {
	From        common.Address
	BlockNumber uint64
	StateDB     StateDB
}

// Handler is implemented by the sub-systems that own action kinds.
type Handler interface {
	CanHandle(kind ActionKind) bool
	Handle(ctx *Context, sa *SysAction) error
}

// Registry holds registered handlers. Handlers are checked in registration
// order and the first one claiming a kind wins.
type Registry struct{ handlers []Handler }

// NewRegistry returns a registry holding the given handlers.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{handlers: handlers}
}

// Register adds a handler to the registry.
func (r *Registry) Register(h Handler) { r.handlers = append(r.handlers, h) }

// Execute decodes data and dispatches it to the handler claiming its action.
// A failing handler may have written state; reverting it is the caller's job.
func (r *Registry) Execute(ctx *Context, data []byte) (ActionKind, error) {
	sa, err := Decode(data)
	if err != nil {
		return "", err
	}
	for _, h := range r.handlers {
		if h.CanHandle(sa.Action) {
			return sa.Action, h.Handle(ctx, sa)
		}
	}
	return sa.Action, fmt.Errorf("%w: %q", ErrUnknownAction, sa.Action)
}
