package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/wb-go/wbf/ginext"

	"regdesk/internal/dto"
	"regdesk/internal/model"
)

// Upload reads the multipart fields file, campaignId and imageType.
func (r *Routers) Upload(c *ginext.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, r.MaxUploadBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		dto.BadResponseError(c, dto.UploadRejected, "No file provided")
		return
	}
	campaignID, err := strconv.ParseInt(c.PostForm("campaignId"), 10, 64)
	if err != nil || campaignID <= 0 {
		dto.FieldBadFormatError(c, "campaignId")
		return
	}

	f, err := fh.Open()
	if err != nil {
		r.Log.Error().Err(err).Msg("failed to open uploaded file")
		dto.InternalServerError(c)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, r.MaxUploadBytes+1))
	if err != nil {
		r.Log.Error().Err(err).Msg("failed to read uploaded file")
		dto.InternalServerError(c)
		return
	}

	resp, res := r.Uploads.Upload(c.Request.Context(), campaignID, model.ImageType(c.PostForm("imageType")), fh.Filename, data)
	reply(c, res, resp)
}

func (r *Routers) DeleteUpload(c *ginext.Context) {
	var req dto.DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		dto.FieldIncorrectError(c, "url")
		return
	}
	reply(c, r.Uploads.Delete(c.Request.Context(), req.URL), nil)
}
