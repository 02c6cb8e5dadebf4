package storage

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

// Hint turns an upload failure into a message an editor can act on.
func Hint(bucket string, err error) string {
	if err == nil {
		return ""
	}

	msg := strings.ToLower(err.Error())

	var apiErr smithy.APIError
	if (errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket") ||
		strings.Contains(msg, "bucket not found") || strings.Contains(msg, "nosuchbucket") {
		return fmt.Sprintf("Upload failed: the %q bucket was not found. Create it in the object storage.", bucket)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "failed to fetch") {
		return "Upload failed: a network error occurred while reaching the object storage. Check the storage endpoint and its CORS settings."
	}

	return err.Error()
}
