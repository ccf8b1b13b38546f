// Package service exposes the contact book as a REST API. It applies the same
// validation rules as the interactive front end before anything is written
// to the store.
package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
	"go.uber.org/zap"
)

// Store is the part of the contact store the REST API needs.
type Store interface {
	Create(ctx context.Context, c pkgmodel.Contact) (int64, error)
	List(ctx context.Context, filter string) ([]pkgmodel.Contact, error)
	Get(ctx context.Context, id int64) (pkgmodel.Contact, error)
	Update(ctx context.Context, c pkgmodel.Contact) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Service holds the dependencies of the HTTP handlers.
type Service struct {
	store     Store
	validator *validation.Validator
	logger    *zap.Logger
}

// New creates the service on top of the given store. A nil logger discards
// all log output.
func New(s Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, validator: validation.New(), logger: logger}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. With requestLog
// set, every request is written to the service's logger.
func (s *Service) SetupHttpRouter(requestLog bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if requestLog {
		router.Use(s.logRequests)
	}
	router.GET("/contacts", s.findContacts)
	router.POST("/contacts", s.createContact)
	router.GET("/contacts/:id", s.findContactByID)
	router.PUT("/contacts/:id", s.updateContactByID)
	router.DELETE("/contacts/:id", s.deleteContactByID)
	return router
}

// logRequests logs method, path, status and duration of every request.
func (s *Service) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("duration", time.Since(start)),
	)
}

// findContacts responds with the list of contacts as JSON, sorted by name.
//
// The URL parameter 'q' restricts the result to contacts whose name, phone or email contains the
// given text, ignoring case. An empty result is answered with an empty list.
//
// REST API calls:
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?q=smith"
func (s *Service) findContacts(c *gin.Context) {
	contacts, err := s.store.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.internalError(c, "list contacts", err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// createContact validates the contact specified in the request's JSON and inserts it into the
// database. It responds with the stored contact including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Erika Mustermann", "phone": "49081547110", "email": "erika@example.com"}'
func (s *Service) createContact(c *gin.Context) {
	contact, ok := s.bindContact(c, 0)
	if !ok {
		return
	}
	id, err := s.store.Create(c.Request.Context(), contact)
	if err != nil {
		s.internalError(c, "create contact", err)
		return
	}
	contact.Id = id
	s.logger.Info("contact created", zap.Int64("id", id))
	c.IndentedJSON(http.StatusCreated, contact)
}

// findContactByID locates the contact whose ID value matches the id parameter of the request URL,
// then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56
func (s *Service) findContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		s.internalError(c, "get contact", err)
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// updateContactByID overwrites name, phone and email of the contact whose ID value matches the id
// parameter of the request URL. All three values are required and validated like on creation.
// It responds with the new version of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"name": "Erika Musterfrau", "phone": "49081547110", "email": "erika@example.com"}'
func (s *Service) updateContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contact, ok := s.bindContact(c, id)
	if !ok {
		return
	}
	found, err := s.store.Update(c.Request.Context(), contact)
	if err != nil {
		s.internalError(c, "update contact", err)
		return
	}
	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	s.logger.Info("contact updated", zap.Int64("id", id))
	c.IndentedJSON(http.StatusOK, contact)
}

// deleteContactByID deletes the contact whose ID value matches the id parameter of the request URL
// from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE"
func (s *Service) deleteContactByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, err := s.store.Delete(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, "delete contact", err)
		return
	}
	if !found {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	s.logger.Info("contact deleted", zap.Int64("id", id))
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
}

// parseID reads the id parameter of the request URL. An id that is not a number cannot exist,
// so it is answered with NOT FOUND.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// bindContact reads the contact form from the request's JSON and validates it. On failure the
// request is answered with BAD REQUEST and, for rule violations, one message per field.
func (s *Service) bindContact(c *gin.Context, id int64) (pkgmodel.Contact, bool) {
	var form model.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return pkgmodel.Contact{}, false
	}
	normalized, err := s.validator.Contact(form)
	if err != nil {
		errs, _ := validation.AsErrors(err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid contact", "errors": errs})
		return pkgmodel.Contact{}, false
	}
	return pkgmodel.Contact{Id: id, Name: normalized.Name, Phone: normalized.Phone, Email: normalized.Email}, true
}

func (s *Service) internalError(c *gin.Context, action string, err error) {
	s.logger.Error(action+" failed", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "could not " + action})
}
