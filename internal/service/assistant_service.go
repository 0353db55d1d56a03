package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"alvely-be/internal/dto"
	"alvely-be/internal/pkg/logger"
	"alvely-be/pkg/attachment"
	"alvely-be/pkg/events"
	"alvely-be/pkg/retrieval/pipeline"
	"alvely-be/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// RetrievalEventsTopic is the in-process bus topic carrying pipeline emissions.
const RetrievalEventsTopic = "RETRIEVAL_EVENTS"

var (
	ErrSessionNotFound = errors.New("session not found or access denied")
	ErrRunInProgress   = errors.New("a retrieval run is already in progress for this session")
	ErrNoQueryYet      = errors.New("no query submitted yet")
)

type IAssistantService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, modelId string) (*dto.CreateSessionResponse, error)
	SubmitQuery(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SubmitQueryRequest) (*dto.SubmitQueryResponse, error)
	LoadMore(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string) (*dto.SubmitQueryResponse, error)
	UploadAttachment(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UploadAttachmentRequest) (*dto.UploadAttachmentResponse, error)
	UploadPDFPages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UploadPDFPagesRequest) ([]dto.UploadAttachmentResponse, error)
	ChangeModel(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, modelId string) error
	ResetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type assistantService struct {
	sessions     *session.Repository
	pipe         *pipeline.Pipeline
	pubSub       *gochannel.GoChannel
	defaultModel string
	logger       logger.ILogger
}

func NewAssistantService(
	sessions *session.Repository,
	pipe *pipeline.Pipeline,
	pubSub *gochannel.GoChannel,
	defaultModel string,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		sessions:     sessions,
		pipe:         pipe,
		pubSub:       pubSub,
		defaultModel: defaultModel,
		logger:       log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context, userId uuid.UUID, modelId string) (*dto.CreateSessionResponse, error) {
	if modelId == "" {
		modelId = s.defaultModel
	}

	id := uuid.New()
	sess := session.New(id.String(), userId.String(), modelId)
	s.sessions.Save(sess)

	s.logger.Info("AssistantService", "Session created", map[string]interface{}{
		"session_id": id,
		"model_id":   modelId,
	})

	return &dto.CreateSessionResponse{Id: id, ModelId: modelId}, nil
}

// SubmitQuery runs one full pipeline request: the User turn is recorded
// once the run is admitted, the run executes on the caller's goroutine,
// and the Assistant turn is only recorded if synthesis succeeded.
func (s *assistantService) SubmitQuery(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SubmitQueryRequest) (*dto.SubmitQueryResponse, error) {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, sess, sessionId, req.Query, pipeline.Mode(req.Mode), true)
}

// LoadMore re-submits the last query verbatim. No new User turn is
// recorded: "more" supplements results, it does not extend the conversation.
func (s *assistantService) LoadMore(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, mode string) (*dto.SubmitQueryResponse, error) {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}

	query := sess.LastQuery()
	if query == "" {
		return nil, ErrNoQueryYet
	}

	return s.run(ctx, sess, sessionId, query, pipeline.Mode(mode), false)
}

func (s *assistantService) run(ctx context.Context, sess *session.Session, sessionId uuid.UUID, query string, mode pipeline.Mode, recordTurn bool) (*dto.SubmitQueryResponse, error) {
	if !sess.BeginRun() {
		// Rejected submissions leave the session untouched
		return nil, ErrRunInProgress
	}
	defer sess.EndRun()

	if recordTurn {
		sess.AppendTurn("user", query)
	}

	request := &pipeline.Request{
		Query:       query,
		History:     sess.HistorySnapshot(),
		Attachments: sess.AttachmentsSnapshot(),
		Mode:        mode,
		ModelID:     sess.ModelID(),
		Ledger:      sess.Ledger,
	}

	// Uploads are consumed by the submission whether or not it succeeds
	sess.ClearAttachments()

	result, err := s.pipe.Execute(ctx, request)
	if err != nil {
		s.logger.Error("AssistantService", "Pipeline run failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		s.publish(events.NewFailedEvent(sessionId.String(), err.Error()))
		return nil, err
	}

	if result.Answer != "" {
		sess.AppendTurn("assistant", result.Answer)
	}
	sess.SetLastQuery(query)
	s.sessions.Save(sess)

	s.emitResult(sessionId, mode, result)

	return &dto.SubmitQueryResponse{
		SessionId: sessionId,
		Answer:    result.Answer,
		Sources:   result.Sources,
		Images:    result.Images,
	}, nil
}

func (s *assistantService) emitResult(sessionId uuid.UUID, mode pipeline.Mode, result *pipeline.Result) {
	if mode == pipeline.ModeImage {
		s.publish(events.NewImagesEvent(sessionId.String(), result.Images))
		return
	}
	if result.Answer != "" {
		s.publish(events.NewAnswerEvent(sessionId.String(), result.Answer))
	}
	s.publish(events.NewSourcesEvent(sessionId.String(), result.Sources))
}

func (s *assistantService) publish(event events.BaseEvent) {
	payload, err := json.Marshal(dto.RetrievalEventDTO{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		s.logger.Error("AssistantService", "Failed to marshal event", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := s.pubSub.Publish(RetrievalEventsTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Error("AssistantService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *assistantService) UploadAttachment(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UploadAttachmentRequest) (*dto.UploadAttachmentResponse, error) {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("decode file data: %w", err)
	}

	att, err := attachment.EncodeFile(req.Name, data)
	if err != nil {
		return nil, err
	}

	sess.AddAttachments(att)
	s.sessions.Save(sess)

	return &dto.UploadAttachmentResponse{Name: att.Name, Kind: string(att.Kind)}, nil
}

func (s *assistantService) UploadPDFPages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UploadPDFPagesRequest) ([]dto.UploadAttachmentResponse, error) {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}

	pages := make([][]byte, 0, len(req.Pages))
	for i, encoded := range req.Pages {
		page, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode page %d: %w", i+1, err)
		}
		pages = append(pages, page)
	}

	attachments := attachment.EncodePDFPages(req.Name, pages)
	sess.AddAttachments(attachments...)
	s.sessions.Save(sess)

	responses := make([]dto.UploadAttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		responses = append(responses, dto.UploadAttachmentResponse{Name: att.Name, Kind: string(att.Kind)})
	}
	return responses, nil
}

// ChangeModel switches the session's model. Pending attachments are
// dropped because the new backend may not support them.
func (s *assistantService) ChangeModel(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, modelId string) error {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return err
	}

	sess.SetModel(modelId)
	s.sessions.Save(sess)

	s.logger.Info("AssistantService", "Model changed", map[string]interface{}{
		"session_id": sessionId,
		"model_id":   modelId,
	})
	return nil
}

func (s *assistantService) ResetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return err
	}

	sess.Reset()
	s.sessions.Save(sess)
	return nil
}

func (s *assistantService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	sess, err := s.loadOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}

	history := sess.HistorySnapshot()
	turns := make([]dto.HistoryTurnResponse, 0, len(history))
	for _, msg := range history {
		turns = append(turns, dto.HistoryTurnResponse{Role: msg.Role, Content: msg.Content})
	}

	return &dto.SessionHistoryResponse{
		SessionId: sessionId,
		ModelId:   sess.ModelID(),
		Turns:     turns,
	}, nil
}

func (s *assistantService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	if _, err := s.loadOwned(userId, sessionId); err != nil {
		return err
	}
	s.sessions.Delete(sessionId.String())
	return nil
}

func (s *assistantService) loadOwned(userId uuid.UUID, sessionId uuid.UUID) (*session.Session, error) {
	sess, found := s.sessions.Get(sessionId.String())
	if !found || sess.UserID != userId.String() {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
