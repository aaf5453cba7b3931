package api

import (
	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/dto"
	"regdesk/internal/model"
)

// SubmitRegistration accepts the public form as JSON or as a urlencoded/multipart post.
func (r *Routers) SubmitRegistration(c *ginext.Context) {
	var req dto.RegistrationRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid request body")
		return
	}
	resp, res := r.Registrations.Submit(c.Request.Context(), c.Param("slug"), req)
	replyCreated(c, res, resp)
}

func (r *Routers) ListRegistrations(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if wantsCSV(c) {
		body, name, res := r.Registrations.ExportCSV(c.Request.Context(), id, registrationFilter(c))
		replyCSV(c, res, body, name)
		return
	}
	regs, res := r.Registrations.List(c.Request.Context(), id, registrationFilter(c))
	reply(c, res, regs)
}

func (r *Routers) QueueReminders(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, res := r.Registrations.QueueReminders(c.Request.Context(), id)
	reply(c, res, resp)
}

func (r *Routers) BulkApprove(c *ginext.Context) {
	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	resp, res := r.Registrations.BulkApprove(c.Request.Context(), req)
	reply(c, res, resp)
}

func (r *Routers) ApproveRegistration(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ApproveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
			return
		}
	}
	reply(c, r.Registrations.Approve(c.Request.Context(), id, req.Notify), nil)
}

func (r *Routers) RejectRegistration(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Registrations.Reject(c.Request.Context(), id), nil)
	}
}

func (r *Routers) SetPayment(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	reply(c, r.Registrations.SetPayment(c.Request.Context(), id, req), nil)
}

func (r *Routers) SendEmail(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	kind := model.EmailKind(c.Param("kind"))
	reply(c, r.Registrations.SendEmail(c.Request.Context(), id, kind), nil)
}

func (r *Routers) EmailHistory(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	history, res := r.Registrations.EmailHistory(c.Request.Context(), id)
	reply(c, res, history)
}
