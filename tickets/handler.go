package tickets

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/tos-network/gtickets/params"
	"github.com/tos-network/gtickets/sysaction"
)

// Handler implements sysaction.Handler for the ticket distributor actions.
type Handler struct {
	profile *params.DistributorProfile
	minter  Minter
}

// NewHandler returns a handler running the distributor under profile.
func NewHandler(profile *params.DistributorProfile, minter Minter) *Handler {
	return &Handler{profile: profile, minter: minter}
}

func (h *Handler) CanHandle(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionAddCode, sysaction.ActionAddCodes, sysaction.ActionResetCounters,
		sysaction.ActionDistributeStandard, sysaction.ActionDistributeTop, sysaction.ActionSetOperator,
		sysaction.ActionRegisterStandard, sysaction.ActionRegisterTop:
		return true
	}
	return false
}

// operatorOnly reports whether kind is restricted to operators. Registration
// is open to anyone holding a valid code.
func operatorOnly(kind sysaction.ActionKind) bool {
	switch kind {
	case sysaction.ActionRegisterStandard, sysaction.ActionRegisterTop:
		return false
	}
	return true
}

func (h *Handler) Handle(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	if operatorOnly(sa.Action) && !IsOperator(ctx.StateDB, ctx.From) {
		operatorDeniedMeter.Mark(1)
		return fmt.Errorf("%w: %s", ErrNotOperator, ctx.From.Hex())
	}
	d := NewDistributor(ctx.StateDB, h.profile, h.minter)

	switch sa.Action {
	case sysaction.ActionAddCode:
		return h.handleAddCode(d, sa)
	case sysaction.ActionAddCodes:
		return h.handleAddCodes(d, sa)
	case sysaction.ActionResetCounters:
		d.ResetCounters()
		log.Debug("Reset registration counters", "block", ctx.BlockNumber)
		return nil
	case sysaction.ActionRegisterStandard:
		return h.handleRegister(ctx, d, Standard, sa)
	case sysaction.ActionRegisterTop:
		return h.handleRegister(ctx, d, Top, sa)
	case sysaction.ActionDistributeStandard:
		return h.handleDistribute(ctx, d, Standard, sa)
	case sysaction.ActionDistributeTop:
		return h.handleDistribute(ctx, d, Top, sa)
	case sysaction.ActionSetOperator:
		return h.handleSetOperator(ctx, sa)
	}
	return nil
}

func decodePayload(sa *sysaction.SysAction, dst interface{}) error {
	if err := sysaction.DecodePayload(sa, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (h *Handler) handleAddCode(d *Distributor, sa *sysaction.SysAction) error {
	var p CodePayload
	if err := decodePayload(sa, &p); err != nil {
		return err
	}
	code, err := codeFromHex(p.Code)
	if err != nil {
		return err
	}
	d.AddCode(code)
	log.Trace("Added access code", "code", code.ToBig())
	return nil
}

func (h *Handler) handleAddCodes(d *Distributor, sa *sysaction.SysAction) error {
	var p CodesPayload
	if err := decodePayload(sa, &p); err != nil {
		return err
	}
	codes, err := codesFromHex(p.Codes)
	if err != nil {
		return err
	}
	if err := d.AddManyCodes(codes); err != nil {
		return err
	}
	log.Debug("Added access code batch", "count", len(codes))
	return nil
}

func (h *Handler) handleRegister(ctx *sysaction.Context, d *Distributor, tier Tier, sa *sysaction.SysAction) error {
	var p RegisterPayload
	if err := decodePayload(sa, &p); err != nil {
		return err
	}
	code, err := codeFromHex(p.Code)
	if err != nil {
		return err
	}
	addr := ctx.From
	if p.Address != nil {
		addr = *p.Address
	}
	var index uint64
	if tier == Top {
		index, err = d.RegisterTopTier(code, addr)
	} else {
		index, err = d.RegisterStandardTier(code, addr)
	}
	if err != nil {
		return err
	}
	log.Debug("Registered for tier", "tier", tier, "index", index, "address", addr, "sender", ctx.From)
	return nil
}

func (h *Handler) handleDistribute(ctx *sysaction.Context, d *Distributor, tier Tier, sa *sysaction.SysAction) error {
	var p DistributePayload
	if err := decodePayload(sa, &p); err != nil {
		return err
	}
	var (
		ids []uint64
		err error
	)
	if tier == Top {
		ids, err = d.DistributeTopClaims(p.Indices)
	} else {
		ids, err = d.DistributeStandardClaims(p.Indices)
	}
	if err != nil {
		return err
	}
	log.Info("Distributed claim tokens", "tier", tier, "block", ctx.BlockNumber, "first", ids[0], "last", ids[len(ids)-1])
	return nil
}

func (h *Handler) handleSetOperator(ctx *sysaction.Context, sa *sysaction.SysAction) error {
	var p SetOperatorPayload
	if err := decodePayload(sa, &p); err != nil {
		return err
	}
	if err := SetOperator(ctx.StateDB, p.Address, p.Enabled); err != nil {
		return err
	}
	log.Info("Updated operator", "address", p.Address, "enabled", p.Enabled, "by", ctx.From)
	return nil
}
