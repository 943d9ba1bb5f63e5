package server

import (
	"bytes"
	"chat-relay/auth"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/sink"
	"chat-relay/storage"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const password = "ComplexPass123!"

type relay struct {
	t      *testing.T
	server *httptest.Server
}

func newRelay(t *testing.T) *relay {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)

	log := slog.Default()
	userRepository := repositories.NewUserRepository(db)
	groupRepository := repositories.NewGroupRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log, 16)
	auditRepository := repositories.NewAuditRepository(db)
	attachments, err := storage.NewDiskStore(log, t.TempDir(), "", 1024, nil)
	require.NoError(t, err)

	auditSink := sink.NewAuditSink(log, 64)
	ctx, cancel := context.WithCancel(context.Background())
	writerDone := make(chan struct{})
	go func() {
		_ = workers.NewAuditWriterWorker(log, auditSink.Entries(), auditRepository).Run(ctx)
		close(writerDone)
	}()

	tokens := auth.NewTokens("test-secret", time.Hour)
	monitoring := observability.NewMonitoringManager()
	registry := runtime.NewRegistry(log)
	router := runtime.NewRouter(log, groupRepository, messageRepository, registry, auditSink, 1, time.Millisecond)
	replayer := runtime.NewReplayer(log, groupRepository, messageRepository)
	receipts := runtime.NewReceipts(log, messageRepository, 1, time.Millisecond)

	onError := ErrorWriter(log)
	handlers := Handlers{
		Chat: NewChatServer(log, tokens, registry, replayer, router, receipts, monitoring, WSConfig{
			PongWait: time.Minute, PingPeriod: time.Second, WriteWait: time.Second, MaxFrameSize: 4096,
		}, 16),
		Auth: NewAuthServer(services.NewAuthService(userRepository, tokens, auditSink, []string{"hq"}), onError),
		Attachments: NewAttachmentServer(services.NewChatService(groupRepository, router, attachments, auditSink),
			attachments.Path, 1024, onError),
		HQ: NewHQServer(services.NewGroupService(groupRepository, userRepository, auditRepository, auditSink), onError),
	}
	server := httptest.NewServer(NewRouter(log, tokens, monitoring, handlers))
	t.Cleanup(func() {
		server.CloseClientConnections()
		server.Close()
		registry.CloseAll(sink.ReasonShutdown)
		cancel()
		<-writerDone
		_ = db.Close()
	})
	return &relay{t: t, server: server}
}

func (r *relay) call(method, path, token string, body any, out any) int {
	r.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(r.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, r.server.URL+path, reader)
	require.NoError(r.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := r.server.Client().Do(req)
	require.NoError(r.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(r.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (r *relay) signup(username string) (string, string) {
	r.t.Helper()
	var token tokenResponse
	status := r.call(http.MethodPost, "/api/users/signup", "", auth.SignupRequest{
		Username: username, Email: username + "@relay.test", Password: password,
	}, &token)
	require.Equal(r.t, http.StatusCreated, status)
	var me meResponse
	require.Equal(r.t, http.StatusOK, r.call(http.MethodGet, "/api/users/me", token.AccessToken, nil, &me))
	return token.AccessToken, me.UserID
}

func (r *relay) dial(query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(r.server.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func (r *relay) connect(token string) *websocket.Conn {
	r.t.Helper()
	conn, _, err := r.dial("", http.Header{"Authorization": []string{"Bearer " + token}})
	require.NoError(r.t, err)
	r.t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (r *relay) stats() observability.RelayStats {
	r.t.Helper()
	var stats observability.RelayStats
	require.Equal(r.t, http.StatusOK, r.call(http.MethodGet, "/healthz", "", nil, &stats))
	return stats
}

func readFrame(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(out))
}

func TestAuthEndpoints(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	r.signup("alice")

	var body errorBody
	req.Equal(http.StatusConflict, r.call(http.MethodPost, "/api/users/signup", "", auth.SignupRequest{
		Username: "alice", Email: "other@relay.test", Password: password,
	}, &body))
	req.Equal(http.StatusBadRequest, r.call(http.MethodPost, "/api/users/signup", "", auth.SignupRequest{
		Username: "bob", Email: "bob@relay.test", Password: "short",
	}, nil))
	req.Equal(http.StatusBadRequest, r.call(http.MethodPost, "/api/users/signup", "",
		map[string]string{"username": "bob", "admin": "true"}, nil))

	var token tokenResponse
	req.Equal(http.StatusOK, r.call(http.MethodPost, "/api/users/login", "", auth.LoginRequest{Username: "alice", Password: password}, &token))
	req.Equal("bearer", token.TokenType)
	req.Equal(http.StatusUnauthorized, r.call(http.MethodPost, "/api/users/login", "", auth.LoginRequest{Username: "alice", Password: "Wrong123!wrong"}, nil))

	req.Equal(http.StatusUnauthorized, r.call(http.MethodGet, "/api/users/me", "", nil, nil))
	req.Equal(http.StatusUnauthorized, r.call(http.MethodGet, "/api/users/me", "garbage", nil, nil))
}

func TestHQ_Requires_Admin(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	adminToken, _ := r.signup("hq")
	aliceToken, alice := r.signup("alice")

	req.Equal(http.StatusForbidden, r.call(http.MethodGet, "/api/hq/groups", aliceToken, nil, nil))

	var group groupResponse
	req.Equal(http.StatusCreated, r.call(http.MethodPost, "/api/hq/groups", adminToken, createGroupRequest{
		Name: "friends", Members: []string{alice},
	}, &group))
	req.Equal([]string{alice}, group.Members)

	req.Equal(http.StatusNotFound, r.call(http.MethodPost, "/api/hq/groups", adminToken, createGroupRequest{
		Name: "ghosts", Members: []string{"nobody"},
	}, nil))

	var groups []groupResponse
	req.Equal(http.StatusOK, r.call(http.MethodGet, "/api/hq/groups", adminToken, nil, &groups))
	req.Len(groups, 1)

	req.Equal(http.StatusOK, r.call(http.MethodDelete, "/api/hq/groups/"+group.ID+"/members/"+alice, adminToken, nil, &group))
	req.Empty(group.Members)

	// The audit writer is asynchronous
	var logs []logResponse
	req.Eventually(func() bool {
		logs = nil
		return r.call(http.MethodGet, "/api/hq/logs?limit=50", adminToken, nil, &logs) == http.StatusOK && len(logs) >= 4
	}, 2*time.Second, 20*time.Millisecond)
	req.Equal("REMOVE_FROM_GROUP", logs[0].Action)

	req.Equal(http.StatusBadRequest, r.call(http.MethodGet, "/api/hq/logs?limit=-1", adminToken, nil, nil))
	req.Equal(http.StatusNoContent, r.call(http.MethodDelete, "/api/hq/logs/"+logs[0].ID, adminToken, nil, nil))
	req.Equal(http.StatusNotFound, r.call(http.MethodDelete, "/api/hq/logs/"+logs[0].ID, adminToken, nil, nil))
}

func TestHQ_User_Verification(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	adminToken, _ := r.signup("hq")
	aliceToken, alice := r.signup("alice")

	req.Equal(http.StatusForbidden, r.call(http.MethodGet, "/api/hq/users", aliceToken, nil, nil))
	req.Equal(http.StatusForbidden, r.call(http.MethodPut, "/api/hq/users/"+alice+"/verified", aliceToken, nil, nil))

	var users []userResponse
	req.Equal(http.StatusOK, r.call(http.MethodGet, "/api/hq/users", adminToken, nil, &users))
	req.Len(users, 2)
	req.Equal("alice", users[0].Username)
	req.False(users[0].Verified)
	req.Equal([]string{"user", "admin"}, users[1].Roles)

	var user userResponse
	req.Equal(http.StatusOK, r.call(http.MethodPut, "/api/hq/users/"+alice+"/verified", adminToken, nil, &user))
	req.True(user.Verified)
	req.Equal(alice, user.ID)

	users = nil
	req.Equal(http.StatusOK, r.call(http.MethodGet, "/api/hq/users?unverified=true", adminToken, nil, &users))
	req.Len(users, 1)
	req.Equal("hq", users[0].Username)

	var me meResponse
	req.Equal(http.StatusOK, r.call(http.MethodGet, "/api/users/me", aliceToken, nil, &me))
	req.True(me.Verified)

	req.Equal(http.StatusOK, r.call(http.MethodDelete, "/api/hq/users/"+alice+"/verified", adminToken, nil, &user))
	req.False(user.Verified)

	req.Equal(http.StatusNotFound, r.call(http.MethodPut, "/api/hq/users/nobody/verified", adminToken, nil, nil))
	req.Equal(http.StatusBadRequest, r.call(http.MethodGet, "/api/hq/users?unverified=maybe", adminToken, nil, nil))
}

func TestWebsocket_Offline_Member_Catches_Up(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	adminToken, _ := r.signup("hq")
	aliceToken, alice := r.signup("alice")
	bobToken, bob := r.signup("bob")

	var group groupResponse
	req.Equal(http.StatusCreated, r.call(http.MethodPost, "/api/hq/groups", adminToken, createGroupRequest{
		Name: "friends", Members: []string{alice, bob},
	}, &group))

	// Without a token the upgrade is refused
	_, resp, err := r.dial("", nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	aliceConn := r.connect(aliceToken)
	// Garbage is ignored, the session stays up
	req.NoError(aliceConn.WriteMessage(websocket.TextMessage, []byte("not json")))
	req.NoError(aliceConn.WriteJSON(map[string]string{"group_id": "unknown", "message": "hi"}))
	var rejection ErrorFrame
	readFrame(t, aliceConn, &rejection)
	req.Equal(ErrorFrame{Type: FrameError, GroupID: "unknown", Error: "group_not_found"}, rejection)

	req.NoError(aliceConn.WriteJSON(map[string]string{"group_id": group.ID, "message": "hi"}))

	// Bob is offline when the message is dispatched
	req.Eventually(func() bool { return r.stats().Dispatched == 1 }, 2*time.Second, 10*time.Millisecond)
	req.EqualValues(1, r.stats().Rejected)

	bobConn, _, err := r.dial("?token="+bobToken, nil)
	req.NoError(err)
	defer bobConn.Close()
	var frame MessageFrame
	readFrame(t, bobConn, &frame)
	req.Equal(group.ID, frame.GroupID)
	req.Equal("alice", frame.SenderUsername)
	req.Equal(PayloadFrame{Type: "text", Text: "hi"}, frame.Message)

	req.NoError(aliceConn.WriteJSON(map[string]any{"group_id": group.ID, "message": map[string]string{"type": "text", "text": "live"}}))
	readFrame(t, bobConn, &frame)
	req.Equal("live", frame.Message.Text)
}

func TestAttachment_Upload_And_Serve(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	adminToken, _ := r.signup("hq")
	aliceToken, alice := r.signup("alice")
	bobToken, bob := r.signup("bob")

	var group groupResponse
	req.Equal(http.StatusCreated, r.call(http.MethodPost, "/api/hq/groups", adminToken, createGroupRequest{
		Name: "friends", Members: []string{alice, bob},
	}, &group))
	bobConn := r.connect(bobToken)

	upload := func(token, groupID, content string) *http.Response {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "notes.txt")
		req.NoError(err)
		_, err = part.Write([]byte(content))
		req.NoError(err)
		req.NoError(writer.Close())

		request, err := http.NewRequest(http.MethodPost, r.server.URL+"/api/groups/"+groupID+"/attachments", &body)
		req.NoError(err)
		request.Header.Set("Content-Type", writer.FormDataContentType())
		request.Header.Set("Authorization", "Bearer "+token)
		resp, err := r.server.Client().Do(request)
		req.NoError(err)
		return resp
	}

	resp := upload(aliceToken, group.ID, "remember the milk")
	defer resp.Body.Close()
	req.Equal(http.StatusCreated, resp.StatusCode)
	var sent MessageFrame
	req.NoError(json.NewDecoder(resp.Body).Decode(&sent))
	req.Equal("file", sent.Message.Type)
	req.Equal("notes.txt", sent.Message.Filename)

	// Bob gets the file message live
	var frame MessageFrame
	readFrame(t, bobConn, &frame)
	req.Equal(sent.MessageID, frame.MessageID)

	file, err := r.server.Client().Get(r.server.URL + frame.Message.URL)
	req.NoError(err)
	defer file.Body.Close()
	content, err := io.ReadAll(file.Body)
	req.NoError(err)
	req.Equal(http.StatusOK, file.StatusCode)
	req.Equal("remember the milk", string(content))

	denied := upload(adminToken, group.ID, "not a member")
	defer denied.Body.Close()
	req.Equal(http.StatusForbidden, denied.StatusCode)

	tooLarge := upload(aliceToken, group.ID, strings.Repeat("a", 2048))
	defer tooLarge.Body.Close()
	req.Equal(http.StatusRequestEntityTooLarge, tooLarge.StatusCode)
}

func TestHealthz(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)

	var body struct {
		Status     string `json:"status"`
		Dispatched uint64 `json:"dispatched"`
	}
	req.Equal(http.StatusOK, r.call(http.MethodGet, "/healthz", "", nil, &body))
	req.Equal("ok", body.Status)
	req.Zero(body.Dispatched)
}
