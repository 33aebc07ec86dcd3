// backend-go/internal/possync/drive.go
package possync

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveClient wraps the Drive v3 API for the POS export sync daemon. Many
// small POS systems can only drop nightly CSV exports into a shared Drive
// folder; the daemon polls that folder.
type DriveClient struct {
	srv *drive.Service
}

func NewDriveClient(ctx context.Context, credentialsFile string) (*DriveClient, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveClient{srv: srv}, nil
}

// ExportFile is one CSV export found in the watched folder.
type ExportFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// ListExports lists non-trashed files in the watched folder.
func (c *DriveClient) ListExports(folderID string) ([]ExportFile, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := c.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folderID, err)
	}

	files := make([]ExportFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, ExportFile{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}
	return files, nil
}

// Download streams one file's content to w.
func (c *DriveClient) Download(fileID string, w io.Writer) error {
	resp, err := c.srv.Files.Get(fileID).Download()
	if err != nil {
		return fmt.Errorf("download drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}
