package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Title      string `json:"title" validate:"required,min=10"`
	Price      int64  `json:"price" validate:"gte=500"`
	CoverImage string `json:"coverImage" validate:"required,url"`
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	err := ValidateStruct(sampleInput{Title: "short", Price: 100, CoverImage: "not a url"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}

	assert.Equal(t, "title must be at least 10 characters", byField["title"].Message)
	assert.Equal(t, "price must be at least 500", byField["price"].Message)
	assert.Equal(t, "coverImage must be a valid URL", byField["coverImage"].Message)
}

func TestValidationPassesForGoodInput(t *testing.T) {
	err := ValidateStruct(sampleInput{
		Title:      "Professional logo design",
		Price:      500,
		CoverImage: "https://example.com/cover.png",
	})
	assert.NoError(t, err)
}

func TestGetValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, GetValidationErrors(assert.AnError))
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	id := uuid.New()

	token, err := GenerateJWT(id, "Alice", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "Alice", claims.Name)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, Limit: 50}.Offset())
	assert.Equal(t, 100, PaginationParams{Page: 3, Limit: 50}.Offset())

	result := CreatePaginationResult([]int{}, 101, PaginationParams{Page: 1, Limit: 50})
	assert.Equal(t, 3, result.TotalPages)
}

func TestGetPaginationParamsClampsInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	params := func(query string) PaginationParams {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/orders/x/messages?"+query, nil)
		return GetPaginationParams(c)
	}

	p := params("")
	assert.Equal(t, PaginationParams{Page: 1, Limit: DefaultPageLimit}, p)

	p = params("page=0&limit=500")
	assert.Equal(t, PaginationParams{Page: 1, Limit: DefaultPageLimit}, p)

	p = params("page=288230376151711745&limit=50")
	assert.Equal(t, 50, p.Limit)
	assert.GreaterOrEqual(t, p.Offset(), 0)
	assert.LessOrEqual(t, p.Page, math.MaxInt/50)
}
