package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Luni-4/volunteers-shifts/pkg/jwt"
	"github.com/Luni-4/volunteers-shifts/pkg/response"
)

// Context keys set by the session middleware
const (
	ClaimsKey = "claims"
	CardIDKey = "card_id"
	RoleKey   = "role"
)

// MustGetClaims session claims injected by the auth middleware. On false a
// 401 has already been written and the caller should return.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		response.Unauthorized(c, 10002, "accesso richiesto")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "accesso richiesto")
		return nil, false
	}
	return claims, true
}

// MustGetTargetCard card id of the :card_id path parameter. Volunteers may
// only address their own card, administrators any card.
func MustGetTargetCard(c *gin.Context) (int, bool) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return 0, false
	}

	cardID, err := strconv.Atoi(c.Param("card_id"))
	if err != nil || cardID <= 0 {
		response.BadRequest(c, 10001, "numero di tessera non valido")
		return 0, false
	}
	if !claims.IsAdmin() && claims.CardID != cardID {
		response.Forbidden(c, 10003, "operazione non consentita")
		return 0, false
	}
	return cardID, true
}

// parseID positive int64 path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "identificativo non valido")
		return 0, false
	}
	return id, true
}
