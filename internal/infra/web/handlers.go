package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/domain/ports/adapter"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/logging"
	"github.com/DucAnhIT03/Nhom4-sub001/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createLinkRequest struct {
	PlanID    string `json:"planId"`
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"orderInfo"`
}

type createLinkResponse struct {
	PayURL  string `json:"payUrl"`
	OrderID string `json:"orderId"`
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	p, payURL, err := s.payUC.CreateLink(logging.WithUserID(ctx, userID), userID, req.PlanID, req.Amount, req.OrderInfo)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown plan"})
		case errors.Is(err, domain.ErrAmountMismatch):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount does not match plan price"})
		case errors.Is(err, domain.ErrInvalidArgument):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		case errors.Is(err, domain.ErrGatewayDeclined):
			// Terminal provider rejection; the provider message is safe to
			// surface to the authenticated caller.
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		default:
			// Network/timeout against the gateway: retryable by the caller.
			writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "payment gateway unreachable, retry"})
		}
		return
	}

	writeJSON(w, http.StatusOK, createLinkResponse{PayURL: payURL, OrderID: p.OrderReference})
}

// ipnRequest is the gateway's callback body. Field order on the wire does
// not matter; the canonical string is rebuilt from the decoded values.
type ipnRequest struct {
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

type ipnResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
	TransID string `json:"transId"`
}

func (s *Server) handleIPN(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithIPNTimeout(r)
	defer cancel()

	var req ipnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	cb := adapter.IPNCallback{
		OrderID:      req.OrderID,
		RequestID:    req.RequestID,
		Amount:       req.Amount,
		OrderInfo:    req.OrderInfo,
		OrderType:    req.OrderType,
		TransID:      req.TransID,
		ResultCode:   req.ResultCode,
		Message:      req.Message,
		PayType:      req.PayType,
		ResponseTime: req.ResponseTime,
		ExtraData:    req.ExtraData,
		Signature:    req.Signature,
	}

	res, err := s.setUC.HandleIPN(logging.WithOrderRef(ctx, req.OrderID), cb)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "settlement failed"})
		return
	}

	transID := strconv.FormatInt(req.TransID, 10)
	switch res.Outcome {
	case usecase.OutcomeCompleted, usecase.OutcomeAlreadySettled, usecase.OutcomeFailedRecorded:
		writeJSON(w, http.StatusOK, ipnResponse{Message: "acknowledged", OrderID: req.OrderID, TransID: transID})
	case usecase.OutcomeBadSignature:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "signature mismatch"})
	case usecase.OutcomeAmountMismatch:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount mismatch"})
	case usecase.OutcomeUnknownOrder:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown order"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unhandled outcome"})
	}
}

type mySubscriptionResponse struct {
	PlanType  string    `json:"planType"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`
}

func (s *Server) handleMySubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sub, err := s.subUC.GetByUser(ctx, userIDFrom(ctx))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no subscription"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, mySubscriptionResponse{
		PlanType:  sub.PlanType,
		StartTime: sub.StartTime,
		EndTime:   sub.EndTime,
		Status:    string(sub.Status),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
