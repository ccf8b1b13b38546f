package integrationtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-book/internal/service"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	pkgmodel "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// setupRouter opens a fresh SQLite database file and returns the REST API router on top of it.
func setupRouter(t *testing.T) *gin.Engine {
	s, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	gin.SetMode(gin.TestMode)
	return service.New(s, nil).SetupHttpRouter(false)
}

// serve executes a request against the router and returns the response.
func serve(router *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	return recorder
}

// createContact posts a valid contact and returns its id.
func createContact(t *testing.T, router *gin.Engine, name, phone, email string) int64 {
	body := fmt.Sprintf(`{"name": %q, "phone": %q, "email": %q}`, name, phone, email)
	recorder := serve(router, "POST", "/contacts", body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var created pkgmodel.Contact
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	return created.Id
}

// findContacts lists the contacts matching the search text.
func findContacts(t *testing.T, router *gin.Engine, q string) []pkgmodel.Contact {
	recorder := serve(router, "GET", "/contacts?q="+q, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var contacts []pkgmodel.Contact
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &contacts))
	return contacts
}

func names(contacts []pkgmodel.Contact) []string {
	result := make([]string, 0, len(contacts))
	for _, c := range contacts {
		result = append(result, c.Name)
	}
	return result
}

// TestContactHappyPath tests a POST, GET, PUT, and DELETE with valid data.
func TestContactHappyPath(t *testing.T) {
	router := setupRouter(t)

	// test the endpoint for creating a contact
	postRecorder := serve(router, "POST", "/contacts", `
		{
			"name": "Erika Mustermann",
			"phone": "49081547110",
			"email": "erika@example.com"
		}
	`)
	assert.Equal(t, http.StatusCreated, postRecorder.Code)
	var postBody map[string]interface{}
	json.Unmarshal(postRecorder.Body.Bytes(), &postBody)
	assert.Equal(t, "Erika Mustermann", postBody["name"])
	assert.Equal(t, "49081547110", postBody["phone"])
	assert.Equal(t, "erika@example.com", postBody["email"])
	idAsFloat64 := postBody["id"]
	idAsString := fmt.Sprintf("%.0f", idAsFloat64)

	// test the endpoint for finding a contact
	getRecorder := serve(router, "GET", "/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var getBody map[string]interface{}
	json.Unmarshal(getRecorder.Body.Bytes(), &getBody)
	assert.Equal(t, idAsFloat64, getBody["id"])
	assert.Equal(t, "Erika Mustermann", getBody["name"])

	// test the endpoint for updating a contact
	putRecorder := serve(router, "PUT", "/contacts/"+idAsString, `
		{
			"name": "Rudi Völler",
			"phone": "49123456789",
			"email": "rudi@example.com"
		}
	`)
	assert.Equal(t, http.StatusOK, putRecorder.Code)

	// test if a subsequent lookup of the contact returns the updated values
	getAgainRecorder := serve(router, "GET", "/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusOK, getAgainRecorder.Code)
	var getAgainBody map[string]interface{}
	json.Unmarshal(getAgainRecorder.Body.Bytes(), &getAgainBody)
	assert.Equal(t, idAsFloat64, getAgainBody["id"])
	assert.Equal(t, "Rudi Völler", getAgainBody["name"])
	assert.Equal(t, "49123456789", getAgainBody["phone"])
	assert.Equal(t, "rudi@example.com", getAgainBody["email"])

	// test the endpoint for deleting a contact
	deleteRecorder := serve(router, "DELETE", "/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusOK, deleteRecorder.Code)

	// test if a final lookup of the contact will correctly not find it
	getFinalRecorder := serve(router, "GET", "/contacts/"+idAsString, "")
	assert.Equal(t, http.StatusNotFound, getFinalRecorder.Code)
}

// TestCreateContactInvalidBody tests a POST with different forms of invalid request body data.
func TestCreateContactInvalidBody(t *testing.T) {
	invalidRequestBodies := []string{
		"",
		"not JSON",
		`{
			"name": "Erika Mustermann"
			"phone": "49081547110"
			"email": "erika@example.com"
		}`, // commas missing
		"{}",
		`{"name": "Erika", "phone": "0815", "email": "erika@example.com"}`,
		`{"name": "Erika", "phone": "49081547110", "email": "erika"}`,
	}

	router := setupRouter(t)
	for _, body := range invalidRequestBodies {
		recorder := serve(router, "POST", "/contacts", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+body)
	}
	assert.Empty(t, findContacts(t, router, ""))
}

// TestFindAllContacts tests that all contacts are returned sorted by name.
func TestFindAllContacts(t *testing.T) {
	router := setupRouter(t)
	createContact(t, router, "Bob", "98765432100", "bob@example.com")
	createContact(t, router, "Alice Smith", "12345678901", "alice@example.com")
	createContact(t, router, "Carla", "11122233344", "carla@example.org")

	assert.Equal(t, []string{"Alice Smith", "Bob", "Carla"}, names(findContacts(t, router, "")))
}

// TestFindContactsBySearchText tests that the search text matches any of the three fields,
// ignoring case.
func TestFindContactsBySearchText(t *testing.T) {
	router := setupRouter(t)
	createContact(t, router, "Bob", "98765432100", "bob@example.com")
	createContact(t, router, "Alice Smith", "12345678901", "alice@example.com")
	createContact(t, router, "Carla", "11122233344", "carla@example.org")

	assert.Equal(t, []string{"Alice Smith"}, names(findContacts(t, router, "ALI")))
	assert.Equal(t, []string{"Bob"}, names(findContacts(t, router, "98765")))
	assert.Equal(t, []string{"Carla"}, names(findContacts(t, router, ".org")))
	assert.Empty(t, findContacts(t, router, "zzz"))
	assert.Len(t, findContacts(t, router, "%20%20"), 3)
}

// TestDeletedIdIsNotReused tests that a new contact never gets the id of a deleted one.
func TestDeletedIdIsNotReused(t *testing.T) {
	router := setupRouter(t)
	createContact(t, router, "Alice Smith", "12345678901", "alice@example.com")
	bob := createContact(t, router, "Bob", "98765432100", "bob@example.com")

	recorder := serve(router, "DELETE", fmt.Sprintf("/contacts/%d", bob), "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	carla := createContact(t, router, "Carla", "11122233344", "carla@example.org")
	assert.Greater(t, carla, bob)
}

// TestUpdateContactInvalidId tests a PUT for ids that do not exist.
func TestUpdateContactInvalidId(t *testing.T) {
	router := setupRouter(t)
	body := `{"name": "Erika", "phone": "49081547110", "email": "erika@example.com"}`

	assert.Equal(t, http.StatusNotFound, serve(router, "PUT", "/contacts/9999", body).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "PUT", "/contacts/abc", body).Code)
}

// TestUpdateContactInvalidBody tests that a rejected update leaves the stored contact unchanged.
func TestUpdateContactInvalidBody(t *testing.T) {
	router := setupRouter(t)
	id := createContact(t, router, "Alice Smith", "12345678901", "alice@example.com")

	recorder := serve(router, "PUT", fmt.Sprintf("/contacts/%d", id),
		`{"name": "Alice Smith", "phone": "12345678901", "email": "alice@example.com!!"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	contacts := findContacts(t, router, "")
	require.Len(t, contacts, 1)
	assert.Equal(t, "alice@example.com", contacts[0].Email)
}

// TestFindContactInvalidId tests a GET with ids that cannot be found.
func TestFindContactInvalidId(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/contacts/9999", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/contacts/abc", "").Code)
}

// TestDeleteContactInvalidId tests a DELETE with ids that cannot be found.
func TestDeleteContactInvalidId(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", "/contacts/9999", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", "/contacts/abc", "").Code)
}
