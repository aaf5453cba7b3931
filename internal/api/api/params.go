package api

import (
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/dto"
	"regdesk/internal/model"
)

// idParam parses a positive int64 path parameter and answers 400 when it is not one.
func idParam(c *ginext.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.FieldBadFormatError(c, name)
		return 0, false
	}
	return id, true
}

func registrationFilter(c *ginext.Context) model.RegistrationFilter {
	return model.RegistrationFilter{
		Search:        c.Query("search"),
		Status:        model.ApprovalStatus(c.Query("status")),
		PaymentStatus: model.PaymentStatus(c.Query("payment")),
	}
}

func wantsCSV(c *ginext.Context) bool {
	return c.Query("format") == "csv"
}
