package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

type subscribeRequest struct {
	EmailAddress      string             `json:"emailAddress"`
	PreferredCurrency string             `json:"preferredCurrency"`
	Filter            filter.EventFilter `json:"filter"`
}

func (s *Server) hello(c echo.Context) error {
	return sendOK(c, "Hello, World!")
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// lookup resolves the id or email query parameter. It writes the error
// response itself and returns nil when nothing matched.
func (s *Server) lookup(c echo.Context) (*subscription.Subscription, error) {
	id, email := c.QueryParam("id"), c.QueryParam("email")
	if id == "" && email == "" {
		return nil, sendError(c, http.StatusBadRequest, CodeInvalidParameter, "Missing parameter 'id' or 'email'.")
	}

	var (
		sub *subscription.Subscription
		err error
	)
	if id != "" {
		parsed, perr := uuid.Parse(id)
		if perr != nil {
			return nil, sendError(c, http.StatusNotFound, CodeNotFound, "Subscription not found.")
		}
		sub, err = s.store.GetByID(c.Request().Context(), parsed)
	} else {
		sub, err = s.store.Get(c.Request().Context(), email)
	}

	switch {
	case errors.Is(err, subscription.ErrNotFound):
		return nil, sendError(c, http.StatusNotFound, CodeNotFound, "Subscription not found.")
	case err != nil:
		s.log.Error("Error fetching subscription", logger.Fields{"id": id, "email": email}, err)
		return nil, sendError(c, http.StatusInternalServerError, CodeDBError, "Unable to fetch subscription. Please try again later.")
	}
	return sub, nil
}

func (s *Server) getSubscription(c echo.Context) error {
	sub, err := s.lookup(c)
	if sub == nil {
		return err
	}
	return sendOK(c, sub)
}

func (s *Server) addSubscription(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		var syntax *json.SyntaxError
		if errors.As(err, &syntax) {
			return sendError(c, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON: "+syntax.Error())
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return sendError(c, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON: unexpected end of input")
		}
		return sendError(c, http.StatusBadRequest, CodeBadRequest, "Invalid request body.")
	}

	sub := subscription.New(req.EmailAddress, req.PreferredCurrency, req.Filter)
	if err := c.Validate(sub); err != nil {
		var verr *subscription.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, Envelope{APICode: CodeBadRequest, Error: "Invalid request body.", Fields: verr.Fields})
		}
		return err
	}

	err := s.store.Add(c.Request().Context(), sub)
	switch {
	case errors.Is(err, subscription.ErrExists):
		return sendError(c, http.StatusConflict, CodeAlreadyExists, "Subscription already exists.")
	case err != nil:
		s.log.Error("Error adding subscription", logger.Fields{"email": sub.Email}, err)
		return sendError(c, http.StatusInternalServerError, CodeDBError, "Unable to add subscription. Please try again later.")
	}

	s.log.Info("Subscription added", logger.Fields{"email": sub.Email, "filter": sub.Filter.String()})
	return sendOK(c, sub)
}

func (s *Server) removeSubscription(c echo.Context) error {
	sub, err := s.lookup(c)
	if sub == nil {
		return err
	}

	if _, err := s.store.Remove(c.Request().Context(), sub.Email); err != nil {
		s.log.Error("Error removing subscription", logger.Fields{"email": sub.Email}, err)
		return sendError(c, http.StatusInternalServerError, CodeDBError, "Unable to remove subscription. Please try again later.")
	}

	s.log.Info("Subscription removed", logger.Fields{"email": sub.Email})
	return sendOK(c, "Subscription removed.")
}
