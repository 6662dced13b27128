package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/url"
	"slices"
	"strconv"
	"time"

	config "github.com/anjiri1684/neighborhood_hub/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	FolderAvatars     = "neighborhood_hub_avatars"
	FolderPosts       = "neighborhood_hub_posts"
	FolderServices    = "neighborhood_hub_services"
	FolderMarketplace = "neighborhood_hub_marketplace"
	FolderReceipts    = "neighborhood_hub_receipts"
)

var uploadFolders = []string{FolderAvatars, FolderPosts, FolderServices, FolderMarketplace}

// UploadSignature lets a browser upload straight to Cloudinary.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
	Folder    string `json:"folder"`
}

type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
}

type cloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// Uploader is nil until InitMediaService finds CLOUDINARY_URL.
var Uploader MediaUploader

func InitMediaService() {
	url := config.Config("CLOUDINARY_URL")
	if url == "" {
		log.Println("⚠️ CLOUDINARY_URL not set, media uploads disabled.")
		return
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		log.Printf("🔥 Failed to initialize Cloudinary: %v", err)
		return
	}
	Uploader = &cloudinaryUploader{cld: cld}
	log.Println("✅ Media service initialized successfully.")
}

// UploadFormFile streams a multipart file to the configured uploader and
// returns its public URL.
func UploadFormFile(fh *multipart.FileHeader, folder, prefix string) (string, error) {
	if Uploader == nil {
		return "", ErrUploaderUnconfigured
	}
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	return Uploader.Upload(ctx, file, folder, fmt.Sprintf("%s_%s", prefix, uuid.New().String()))
}

// SignUpload signs a direct upload into one of the public media folders.
func SignUpload(folder string) (*UploadSignature, error) {
	if !slices.Contains(uploadFolders, folder) {
		return nil, fmt.Errorf("%w: unknown folder %q", ErrInvalidUploadFolder, folder)
	}
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		return nil, ErrUploaderUnconfigured
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	secret, _ := parsedURL.User.Password()

	params, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, err
	}
	timestamp := timeNow().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, secret)
	if err != nil {
		return nil, err
	}
	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		CloudName: cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}
