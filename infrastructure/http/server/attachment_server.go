package server

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/services"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
const multipartMemory = 1 << 20

type AttachmentServer struct {
	chatService services.IChatService
	files       func(name string) (string, error)
	maxSize     int64
	onError     func(w http.ResponseWriter, err error)
}

func NewAttachmentServer(chatService services.IChatService, files func(name string) (string, error),
	maxSize int64, onError func(w http.ResponseWriter, err error)) *AttachmentServer {
	return &AttachmentServer{chatService: chatService, files: files, maxSize: maxSize, onError: onError}
}

// Upload (POST /api/groups/{group_id}/attachments) stores the "file" part and sends it to the group.
func (s *AttachmentServer) Upload(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFrom(r.Context())
	groupID := domain.GroupID(mux.Vars(r)["group_id"])

	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.onError(w, fmt.Errorf("%w: %v", errors.ErrAttachmentTooLarge, err))
			return
		}
		s.onError(w, fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.onError(w, fmt.Errorf("%w: missing file part", errors.ErrInvalidRequest))
		return
	}
	defer file.Close()

	message, err := s.chatService.SendAttachment(r.Context(), identity, groupID, header.Filename, file)
	if err != nil {
		s.onError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToMessageFrame(message))
}

// Serve (GET /files/{name})
func (s *AttachmentServer) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := s.files(mux.Vars(r)["name"])
	if err != nil {
		s.onError(w, err)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}
