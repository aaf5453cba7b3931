package service

import (
	"context"
	"testing"

	"regdesk/internal/dto"
	"regdesk/internal/model"
	"regdesk/internal/repo/repotest"
)

func validCampaign(slug string) dto.CreateCampaignRequest {
	return dto.CreateCampaignRequest{
		Slug:            slug,
		Title:           "Youth Summit",
		StartDate:       "2026-11-01",
		EndDate:         "2026-11-03",
		Location:        "Lagos",
		RegistrationFee: 50000,
	}
}

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"summit":            "summit",
		"  Youth Summit ":   "youth-summit",
		"Tech   Week  2026": "tech-week-2026",
		"":                  "",
	}
	for in, want := range tests {
		if got := NormalizeSlug(in); got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCampaigns(store, &nopLog)

	id, res := svc.Create(ctx, validCampaign("Youth Summit"))
	if !res.Success {
		t.Fatalf("Create() = %+v, want success", res)
	}
	c, _ := store.GetCampaignByID(ctx, id)
	if c.Slug != "youth-summit" {
		t.Fatalf("slug = %q, want %q", c.Slug, "youth-summit")
	}
	if c.Status != model.CampaignDraft || c.IsRegistrationOpen {
		t.Fatalf("new campaign = %s/%v, want draft/closed", c.Status, c.IsRegistrationOpen)
	}

	_, res = svc.Create(ctx, validCampaign("youth-summit"))
	if res.Success || res.Code != dto.CampaignSlugDuplicate {
		t.Fatalf("duplicate Create() = %+v, want %s", res, dto.CampaignSlugDuplicate)
	}
	if res.Message != "A campaign with this slug already exists. Please use a different slug." {
		t.Fatalf("duplicate message = %q", res.Message)
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateCampaignRequest)
	}{
		{"missing title", func(r *dto.CreateCampaignRequest) { r.Title = "" }},
		{"bad date", func(r *dto.CreateCampaignRequest) { r.StartDate = "01/11/2026" }},
		{"end before start", func(r *dto.CreateCampaignRequest) { r.EndDate = "2026-10-01" }},
		{"negative fee", func(r *dto.CreateCampaignRequest) { r.RegistrationFee = -1 }},
		{"bad slug", func(r *dto.CreateCampaignRequest) { r.Slug = "summit!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCampaigns(repotest.New(), &nopLog)
			req := validCampaign("summit")
			tt.mutate(&req)
			if _, res := svc.Create(context.Background(), req); res.Code != dto.FieldIncorrect {
				t.Fatalf("Create() = %+v, want %s", res, dto.FieldIncorrect)
			}
		})
	}
}

func TestOpeningRegistrationRequiresPublishedStatus(t *testing.T) {
	tests := []struct {
		name   string
		status model.CampaignStatus
		want   string
	}{
		{"draft refused", model.CampaignDraft, dto.CampaignNotPublished},
		{"closed refused", model.CampaignClosed, dto.CampaignNotPublished},
		{"published allowed", model.CampaignPublished, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repotest.New()
			id := store.PutCampaign(model.Campaign{Slug: "summit", Title: "Summit", Status: tt.status})
			res := NewCampaigns(store, &nopLog).SetRegistrationOpen(context.Background(), id, true)
			if res.Code != tt.want {
				t.Fatalf("SetRegistrationOpen() = %+v, want code %q", res, tt.want)
			}
			if tt.want != "" && res.Message != "Registration can only be opened while the campaign is published" {
				t.Fatalf("message = %q", res.Message)
			}
		})
	}
}

func TestCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCampaigns(store, &nopLog)
	id, _ := svc.Create(ctx, validCampaign("summit"))

	if res := svc.SetRegistrationOpen(ctx, id, true); res.Code != dto.CampaignNotPublished {
		t.Fatalf("open draft = %+v, want %s", res, dto.CampaignNotPublished)
	}

	for i := 0; i < 2; i++ {
		if res := svc.Publish(ctx, id); !res.Success {
			t.Fatalf("Publish() #%d = %+v", i, res)
		}
	}
	c, _ := store.GetCampaignByID(ctx, id)
	if c.Status != model.CampaignPublished || !c.IsRegistrationOpen || c.PublishedAt == nil {
		t.Fatalf("published campaign = %+v", c)
	}

	if res := svc.SetRegistrationOpen(ctx, id, false); !res.Success {
		t.Fatalf("close registration = %+v", res)
	}
	if res := svc.Close(ctx, id); !res.Success {
		t.Fatalf("Close() = %+v", res)
	}
	if res := svc.SetRegistrationOpen(ctx, id, true); res.Code != dto.CampaignNotPublished {
		t.Fatalf("open closed campaign = %+v", res)
	}
	if res := svc.Delete(ctx, id); res.Code != dto.CampaignNotDraft {
		t.Fatalf("Delete(closed) = %+v, want %s", res, dto.CampaignNotDraft)
	}
	if res := svc.Archive(ctx, id); !res.Success {
		t.Fatalf("Archive() = %+v", res)
	}
	if res := svc.Publish(ctx, id); res.Code != dto.CampaignArchived {
		t.Fatalf("Publish(archived) = %+v, want %s", res, dto.CampaignArchived)
	}

	list, _ := svc.List(ctx, false)
	if len(list) != 0 {
		t.Fatalf("List(false) len = %d, want 0", len(list))
	}
	list, _ = svc.List(ctx, true)
	if len(list) != 1 {
		t.Fatalf("List(true) len = %d, want 1", len(list))
	}
}

func TestDeleteDraftCampaign(t *testing.T) {
	ctx := context.Background()
	svc := NewCampaigns(repotest.New(), &nopLog)
	id, _ := svc.Create(ctx, validCampaign("summit"))

	if res := svc.Delete(ctx, id); !res.Success {
		t.Fatalf("Delete(draft) = %+v", res)
	}
	if _, res := svc.GetByID(ctx, id); res.Code != dto.CampaignNotFound {
		t.Fatalf("GetByID after delete = %+v, want %s", res, dto.CampaignNotFound)
	}
	if res := svc.Delete(ctx, 999); res.Code != dto.CampaignNotFound {
		t.Fatalf("Delete(missing) = %+v, want %s", res, dto.CampaignNotFound)
	}
}

func TestUpdateCampaign(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCampaigns(store, &nopLog)
	id, _ := svc.Create(ctx, validCampaign("summit"))

	title := "Renamed"
	empty := ""
	if res := svc.Update(ctx, id, dto.UpdateCampaignRequest{Title: &title, Location: &empty}); !res.Success {
		t.Fatalf("Update() = %+v", res)
	}
	c, _ := store.GetCampaignByID(ctx, id)
	if c.Title != "Renamed" || c.Location != "Lagos" {
		t.Fatalf("after update title=%q location=%q", c.Title, c.Location)
	}

	end := "2026-10-01"
	if res := svc.Update(ctx, id, dto.UpdateCampaignRequest{EndDate: &end}); res.Code != dto.FieldIncorrect {
		t.Fatalf("Update(end before start) = %+v, want %s", res, dto.FieldIncorrect)
	}
}

func TestCampaignImages(t *testing.T) {
	ctx := context.Background()
	svc := NewCampaigns(repotest.New(), &nopLog)
	id, _ := svc.Create(ctx, validCampaign("summit"))

	first, res := svc.AddImage(ctx, id, dto.ImageRequest{ImageURL: "https://cdn.example.com/a.png"})
	if !res.Success {
		t.Fatalf("AddImage() = %+v", res)
	}
	second, _ := svc.AddImage(ctx, id, dto.ImageRequest{ImageURL: "https://cdn.example.com/b.png", ImageType: "banner"})
	if first.ImageType != model.ImageGallery || first.DisplayOrder != 1 || second.DisplayOrder != 2 {
		t.Fatalf("images = %+v, %+v", first, second)
	}

	if _, res := svc.AddImage(ctx, id, dto.ImageRequest{ImageURL: "https://cdn.example.com/c.png", ImageType: "poster"}); res.Code != dto.FieldIncorrect {
		t.Fatalf("AddImage(bad type) = %+v", res)
	}
	if _, res := svc.AddImage(ctx, 999, dto.ImageRequest{ImageURL: "https://cdn.example.com/c.png"}); res.Code != dto.CampaignNotFound {
		t.Fatalf("AddImage(missing campaign) = %+v", res)
	}

	if res := svc.DeleteImage(ctx, id, first.ID); !res.Success {
		t.Fatalf("DeleteImage() = %+v", res)
	}
	if res := svc.DeleteImage(ctx, id, first.ID); res.Code != dto.ImageNotFound {
		t.Fatalf("DeleteImage(again) = %+v, want %s", res, dto.ImageNotFound)
	}
	images, _ := svc.ListImages(ctx, id)
	if len(images) != 1 || images[0].ID != second.ID {
		t.Fatalf("ListImages() = %+v", images)
	}
}

func TestCampaignStoreFailure(t *testing.T) {
	store := repotest.New()
	store.Err = errBoom
	svc := NewCampaigns(store, &nopLog)
	if _, res := svc.List(context.Background(), false); res.Code != dto.ServiceUnavailable {
		t.Fatalf("List() = %+v, want %s", res, dto.ServiceUnavailable)
	}
}

func TestPublicCampaign(t *testing.T) {
	ctx := context.Background()
	svc := NewCampaigns(repotest.New(), &nopLog)
	id, _ := svc.Create(ctx, validCampaign("summit"))

	if _, _, res := svc.Public(ctx, "summit"); res.Code != dto.CampaignNotPublished {
		t.Fatalf("Public(draft) = %+v, want %s", res, dto.CampaignNotPublished)
	}
	_ = svc.Publish(ctx, id)
	_, _ = svc.AddImage(ctx, id, dto.ImageRequest{ImageURL: "https://cdn.example.com/a.png"})

	c, images, res := svc.Public(ctx, "SUMMIT")
	if !res.Success || c.ID != id || len(images) != 1 {
		t.Fatalf("Public() = %+v, %d images, %+v", c, len(images), res)
	}
	if _, _, res := svc.Public(ctx, "nope"); res.Code != dto.CampaignNotFound {
		t.Fatalf("Public(missing) = %+v", res)
	}
}
