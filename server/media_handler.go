package server

import (
	"net/http"
	"path"
	"strings"

	"ShelfFM/logger"
	"ShelfFM/storage"

	"github.com/minio/minio-go/v7"
)

var mediaContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
}

// MediaHandler streams a media object from object storage. The request
// path below /media/ is the object key. Range requests are honored so
// surfaces can seek.
func (h *APIHandler) MediaHandler(w http.ResponseWriter, r *http.Request) {
	client := storage.GetMinioClient()
	if client == nil {
		http.Error(w, "Media storage not configured", http.StatusNotFound)
		return
	}

	objectName := strings.TrimPrefix(r.URL.Path, "/media/")
	if objectName == "" {
		http.Error(w, "Missing object path", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	obj, err := client.GetObject(ctx, h.cfg.MinioBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		logger.Error("Failed to open media object",
			logger.String("object", objectName),
			logger.ErrorField(err))
		http.Error(w, "Failed to open media object", http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			http.Error(w, "Media object not found", http.StatusNotFound)
			return
		}
		logger.Error("Failed to stat media object",
			logger.String("object", objectName),
			logger.ErrorField(err))
		http.Error(w, "Failed to read media object", http.StatusInternalServerError)
		return
	}

	if ct, ok := mediaContentTypes[strings.ToLower(path.Ext(objectName))]; ok {
		w.Header().Set("Content-Type", ct)
	} else if stat.ContentType != "" {
		w.Header().Set("Content-Type", stat.ContentType)
	}

	http.ServeContent(w, r, path.Base(objectName), stat.LastModified, obj)
}
