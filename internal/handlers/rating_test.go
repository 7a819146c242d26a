package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/extraclasseshub/zonkehub-backend/internal/database"
	"github.com/extraclasseshub/zonkehub-backend/internal/models"
)

func TestSubmitRating_UpdatesAggregate(t *testing.T) {
	SetupTestDB(t)

	provider := seedProvider(t, "h_prov")
	user := seedUser(t, "h_rater")

	c, w := testContext(t, "POST", "/api/providers/"+provider.ID+"/ratings",
		SubmitRatingInput{Value: 5, ReviewText: "excellent"}, user.ID)
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}

	SubmitRating(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rating models.Rating `json:"rating"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 5, response.Rating.Value)
	assert.Equal(t, user.ID, response.Rating.UserID)

	var stored models.Provider
	database.DB.First(&stored, "id = ?", provider.ID)
	assert.Equal(t, 5.0, stored.AverageRating)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.Equal(t, 5, stored.TotalRatingPoints)
}

func TestSubmitRating_OutOfRangeRejected(t *testing.T) {
	SetupTestDB(t)

	provider := seedProvider(t, "h_prov2")
	user := seedUser(t, "h_rater2")

	c, w := testContext(t, "POST", "/api/providers/"+provider.ID+"/ratings",
		SubmitRatingInput{Value: 9}, user.ID)
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}

	SubmitRating(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.Provider
	database.DB.First(&stored, "id = ?", provider.ID)
	assert.Equal(t, 0, stored.ReviewCount)
}

func TestDeleteRating_NonOwnerForbidden(t *testing.T) {
	SetupTestDB(t)

	provider := seedProvider(t, "h_prov3")
	owner := seedUser(t, "h_owner")
	intruder := seedUser(t, "h_intruder")

	c, _ := testContext(t, "POST", "/api/providers/"+provider.ID+"/ratings",
		SubmitRatingInput{Value: 4}, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}
	SubmitRating(c)

	var rating models.Rating
	database.DB.First(&rating, "user_id = ?", owner.ID)

	c, w := testContext(t, "DELETE", "/api/ratings/"+rating.ID, nil, intruder.ID)
	c.Params = gin.Params{{Key: "id", Value: rating.ID}}
	DeleteRating(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Provider
	database.DB.First(&stored, "id = ?", provider.ID)
	assert.Equal(t, 1, stored.ReviewCount)
	assert.Equal(t, 4.0, stored.AverageRating)
}

// A provider profile read right after a rating delete has to reflect the new
// aggregate. The rating service drops the cached profile on the delete path
// just like it does on submit, so the endpoint may never keep serving the
// pre-delete aggregate for the rest of the cache TTL.
func TestDeleteRating_ProfileReflectsDeletion(t *testing.T) {
	SetupTestDB(t)

	provider := seedProvider(t, "h_prov5")
	rater := seedUser(t, "h_rater5")

	c, _ := testContext(t, "POST", "/api/providers/"+provider.ID+"/ratings",
		SubmitRatingInput{Value: 5}, rater.ID)
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}
	SubmitRating(c)

	// Prime the profile read path while the rating exists.
	c, w := testContext(t, "GET", "/api/providers/"+provider.ID, nil, "")
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}
	GetProvider(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var rating models.Rating
	database.DB.First(&rating, "user_id = ?", rater.ID)

	c, w = testContext(t, "DELETE", "/api/ratings/"+rating.ID, nil, rater.ID)
	c.Params = gin.Params{{Key: "id", Value: rating.ID}}
	DeleteRating(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, "GET", "/api/providers/"+provider.ID, nil, "")
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}
	GetProvider(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Provider models.Provider `json:"provider"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 0, response.Provider.ReviewCount)
	assert.Equal(t, 0.0, response.Provider.AverageRating)
}

func TestGetMyRating_Empty(t *testing.T) {
	SetupTestDB(t)

	provider := seedProvider(t, "h_prov4")
	user := seedUser(t, "h_rater4")

	c, w := testContext(t, "GET", "/api/providers/"+provider.ID+"/ratings/me", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: provider.ID}}
	GetMyRating(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rating": null}`, w.Body.String())
}
