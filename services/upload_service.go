package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/anjiri1684/agriconnect/apperror"
	"github.com/anjiri1684/agriconnect/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type UploadKind string

const (
	UploadAvatar        UploadKind = "avatar"
	UploadCertification UploadKind = "certification"
)

// UploadSignature lets a browser upload straight to Cloudinary.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

type UploadService struct {
	cld    *cloudinary.Cloudinary
	folder string
	now    func() time.Time
}

// NewUploadService returns a service that refuses to sign when url is empty.
func NewUploadService(url, folder string, now func() time.Time) (*UploadService, error) {
	s := &UploadService{folder: folder, now: systemClock(now)}
	if s.folder == "" {
		s.folder = "agriconnect"
	}
	if url == "" {
		return s, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	s.cld = cld
	return s, nil
}

func (s *UploadService) Sign(session *models.Session, kind UploadKind) (*UploadSignature, error) {
	if session == nil {
		return nil, errUnauthenticated()
	}
	var sub string
	switch kind {
	case UploadAvatar:
		sub = "avatars"
	case UploadCertification:
		sub = "certifications"
	default:
		return nil, apperror.Validation("kind must be avatar or certification")
	}
	if s.cld == nil {
		return nil, apperror.Collaborator("Uploads are not configured", errors.New("cloudinary url is empty"))
	}

	folder := s.folder + "/" + sub
	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, apperror.Collaborator("Failed to prepare signature params", err)
	}
	timestamp := s.now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, s.cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, apperror.Collaborator("Failed to sign upload params", err)
	}

	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}
