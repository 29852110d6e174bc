package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	return uint(id), nil
}

// queryID parses an optional positive numeric query parameter
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, NewValidationError(fmt.Sprintf("invalid %s", name))
	}
	v := uint(id)
	return &v, nil
}

// requiredQueryID parses a mandatory positive numeric query parameter
func requiredQueryID(c *gin.Context, name string) (uint, error) {
	id, err := queryID(c, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, NewValidationError(fmt.Sprintf("%s is required", name))
	}
	return *id, nil
}

// queryDate parses an optional date given as YYYY-MM-DD in loc, or as RFC3339
func queryDate(c *gin.Context, name string, loc *time.Location) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid %s, expected YYYY-MM-DD or RFC3339", name))
	}
	return &t, nil
}

// bindJSON binds and validates a JSON body, writing a validation error on failure
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		WriteError(c, NewValidationError(bindingErrorMessage(err)))
		return false
	}
	return true
}

// driverIDQuery returns the driverId query parameter, or 0 when it is absent
func driverIDQuery(c *gin.Context) (uint, error) {
	id, err := queryID(c, "driverId")
	if err != nil || id == nil {
		return 0, err
	}
	return *id, nil
}
