package api

import (
	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/dto"
)

func (r *Routers) ListPublishedCampaigns(c *ginext.Context) {
	campaigns, res := r.Campaigns.ListPublished(c.Request.Context())
	reply(c, res, campaigns)
}

func (r *Routers) GetPublicCampaign(c *ginext.Context) {
	campaign, images, res := r.Campaigns.Public(c.Request.Context(), c.Param("slug"))
	reply(c, res, ginext.H{"campaign": campaign, "images": images})
}

func (r *Routers) ListCampaigns(c *ginext.Context) {
	campaigns, res := r.Campaigns.List(c.Request.Context(), c.Query("archived") == "true")
	reply(c, res, campaigns)
}

func (r *Routers) CreateCampaign(c *ginext.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	id, res := r.Campaigns.Create(c.Request.Context(), req)
	replyCreated(c, res, dto.CreatedResponse{ID: id})
}

func (r *Routers) GetCampaign(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	campaign, res := r.Campaigns.GetByID(c.Request.Context(), id)
	reply(c, res, campaign)
}

func (r *Routers) UpdateCampaign(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	reply(c, r.Campaigns.Update(c.Request.Context(), id, req), nil)
}

func (r *Routers) DeleteCampaign(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Campaigns.Delete(c.Request.Context(), id), nil)
	}
}

func (r *Routers) PublishCampaign(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Campaigns.Publish(c.Request.Context(), id), nil)
	}
}

func (r *Routers) CloseCampaign(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Campaigns.Close(c.Request.Context(), id), nil)
	}
}

func (r *Routers) ArchiveCampaign(c *ginext.Context) {
	if id, ok := idParam(c, "id"); ok {
		reply(c, r.Campaigns.Archive(c.Request.Context(), id), nil)
	}
}

func (r *Routers) ToggleRegistration(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ToggleRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Open == nil {
		dto.FieldIncorrectError(c, "open")
		return
	}
	reply(c, r.Campaigns.SetRegistrationOpen(c.Request.Context(), id, *req.Open), nil)
}

func (r *Routers) CampaignStats(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	stats, res := r.Registrations.Stats(c.Request.Context(), id)
	reply(c, res, stats)
}

func (r *Routers) ListImages(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	images, res := r.Campaigns.ListImages(c.Request.Context(), id)
	reply(c, res, images)
}

func (r *Routers) AddImage(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(c, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	img, res := r.Campaigns.AddImage(c.Request.Context(), id, req)
	replyCreated(c, res, img)
}

func (r *Routers) DeleteImage(c *ginext.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := idParam(c, "imageId")
	if !ok {
		return
	}
	reply(c, r.Campaigns.DeleteImage(c.Request.Context(), id, imageID), nil)
}
