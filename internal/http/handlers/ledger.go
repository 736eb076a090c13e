package handlers

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strings"

	"fundme/internal/domain"
	"fundme/internal/middleware"
)

type valueRequest struct {
	// Value is a base-10 wei amount.
	Value string `json:"value"`
	// ValueEth is a decimal ether amount, used when Value is empty.
	ValueEth string `json:"value_eth"`
}

func (v valueRequest) wei() (*big.Int, error) {
	if strings.TrimSpace(v.Value) != "" {
		return domain.ParseWei(v.Value)
	}
	if strings.TrimSpace(v.ValueEth) != "" {
		return domain.ParseEther(v.ValueEth)
	}
	return nil, domain.ErrInvalidAmount
}

func (a *App) decodeValue(w http.ResponseWriter, r *http.Request) (*big.Int, bool) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return nil, false
	}
	value, err := req.wei()
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "value must be a non-negative wei amount")
		return nil, false
	}
	return value, true
}

func (a *App) caller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing caller")
		return domain.Address{}, false
	}
	return caller, true
}

func (a *App) Fund(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	value, ok := a.decodeValue(w, r)
	if !ok {
		return
	}
	if err := a.Ledger.Fund(r.Context(), caller, value); err != nil {
		a.ledgerError(w, r, err)
		return
	}
	c := a.Ledger.Contract()
	a.json(w, http.StatusOK, map[string]any{
		"funder":       caller.Hex(),
		"value":        amount(value),
		"total_funded": amount(c.AddressToAmountFunded(r.Context(), caller)),
		"funder_count": c.FunderCount(r.Context()),
	})
}

func (a *App) Receive(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	value, ok := a.decodeValue(w, r)
	if !ok {
		return
	}
	if err := a.Ledger.Send(r.Context(), caller, value); err != nil {
		a.ledgerError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"from":    caller.Hex(),
		"value":   amount(value),
		"balance": amount(a.Ledger.Contract().Balance(r.Context())),
	})
}

func (a *App) Withdraw(w http.ResponseWriter, r *http.Request) {
	a.withdraw(w, r, false)
}

func (a *App) WithdrawCheaper(w http.ResponseWriter, r *http.Request) {
	a.withdraw(w, r, true)
}

func (a *App) withdraw(w http.ResponseWriter, r *http.Request, cheaper bool) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	var (
		swept *big.Int
		err   error
	)
	if cheaper {
		swept, err = a.Ledger.CheaperWithdraw(r.Context(), caller)
	} else {
		swept, err = a.Ledger.Withdraw(r.Context(), caller)
	}
	if err != nil {
		a.ledgerError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"owner":         caller.Hex(),
		"received":      amount(swept),
		"owner_balance": amount(a.Ledger.Bank().BalanceOf(r.Context(), caller)),
	})
}
