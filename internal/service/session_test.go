package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ArtemMoroz51/QuizEditor/internal/quiz"
	"github.com/ArtemMoroz51/QuizEditor/internal/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testQuizID = int64(3)

func newTestSession(t *testing.T, seed ...quiz.Question) (*Session, *mockKnowledgeStore) {
	t.Helper()

	store := new(mockKnowledgeStore)
	s := NewSession(testQuizID, store, zap.NewNop())
	_, err := s.Load(context.Background(), seed)
	require.NoError(t, err)
	return s, store
}

func multiQuestion() quiz.Question {
	return quiz.Question{
		ID:   10,
		Text: "Pick primes",
		Type: quiz.TypeMultiple,
		Answers: []quiz.Answer{
			{ID: 1, Text: "2", IsCorrect: true},
			{ID: 2, Text: "3", IsCorrect: true},
			{ID: 3, Text: "4", IsCorrect: false},
		},
	}
}

func singleQuestion() quiz.Question {
	return quiz.Question{
		ID:   20,
		Text: "Capital of France",
		Type: quiz.TypeSingle,
		Answers: []quiz.Answer{
			{ID: 21, Text: "Paris", IsCorrect: true},
			{ID: 22, Text: "Lyon", IsCorrect: false},
		},
	}
}

func rejected(op string) error {
	return &storage.RemoteRejected{Op: op, Status: 400, Message: "text must not be empty"}
}

func TestSession_AddQuestion_DefaultsAndCommits(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())
	ctx := context.Background()

	store.On("CreateQuestion", mock.Anything, testQuizID, storage.QuestionInput{Text: DefaultQuestionText, QuestionType: quiz.TypeSingle}).
		Return(storage.QuestionRow{ID: 30, Text: DefaultQuestionText, QuestionType: quiz.TypeSingle}, nil).Once()

	v, err := s.AddQuestion(ctx, "   ", "")
	require.NoError(t, err)
	require.Equal(t, int64(30), v.ID)
	require.Equal(t, 2, v.Number)
	require.Empty(t, v.Answers)

	st := s.State()
	require.Len(t, st.Questions, 2)
	require.Equal(t, int64(30), st.Questions[1].ID)

	store.AssertExpectations(t)
}

func TestSession_AddQuestion_Rejected_NoLocalState(t *testing.T) {
	s, store := newTestSession(t)

	store.On("CreateQuestion", mock.Anything, testQuizID, mock.Anything).
		Return(storage.QuestionRow{}, rejected("create question")).Once()

	_, err := s.AddQuestion(context.Background(), "Q", quiz.TypeMultiple)
	require.True(t, storage.IsRemoteRejected(err))
	require.Empty(t, s.State().Questions)

	_, pending := s.Pending()
	require.False(t, pending)
	store.AssertExpectations(t)
}

func TestSession_AddQuestion_UnknownType(t *testing.T) {
	s, store := newTestSession(t)

	_, err := s.AddQuestion(context.Background(), "Q", quiz.QuestionType("essay"))
	require.ErrorIs(t, err, quiz.ErrUnknownType)
	store.AssertNotCalled(t, "CreateQuestion", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_AddQuestion_SecondCreationWhilePending(t *testing.T) {
	s, store := newTestSession(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	store.On("CreateQuestion", mock.Anything, testQuizID, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(storage.QuestionRow{ID: 1, Text: DefaultQuestionText, QuestionType: quiz.TypeSingle}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.AddQuestion(ctx, "", quiz.TypeSingle)
		done <- err
	}()
	<-started

	p, ok := s.Pending()
	require.True(t, ok)
	require.Equal(t, DefaultQuestionText, p.Text)

	_, err := s.AddQuestion(ctx, "another", quiz.TypeSingle)
	require.ErrorIs(t, err, ErrCreationPending)

	close(release)
	require.NoError(t, <-done)

	_, ok = s.Pending()
	require.False(t, ok)
	require.Len(t, s.State().Questions, 1)
	store.AssertExpectations(t)
}

func TestSession_UpdateQuestion_MultipleToSingle_FirstWins(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())
	ctx := context.Background()

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), storage.QuestionInput{Text: "Pick primes", QuestionType: quiz.TypeSingle}).
		Return(storage.QuestionRow{ID: 10, Text: "Pick primes", QuestionType: quiz.TypeSingle}, nil).Once()
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(2), storage.AnswerInput{Text: "3", IsCorrect: false}).
		Return(storage.AnswerRow{ID: 2, Text: "3", IsCorrect: false}, nil).Once()

	u, err := s.UpdateQuestion(ctx, 10, "Pick primes", quiz.TypeSingle)
	require.NoError(t, err)
	require.True(t, u.Transitioned)
	require.Equal(t, []int64{2}, u.Demoted)

	q, ok := s.Question(10)
	require.True(t, ok)
	require.Equal(t, quiz.TypeSingle, q.Type)
	require.True(t, q.Answers[0].IsCorrect)
	require.False(t, q.Answers[1].IsCorrect)
	require.False(t, q.Answers[2].IsCorrect)

	require.Len(t, u.Question.Render, 3)
	require.Equal(t, quiz.InputRadio, u.Question.Render[0].Input)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, testQuizID, int64(1), mock.Anything)
	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, testQuizID, int64(3), mock.Anything)
}

func TestSession_UpdateQuestion_DemotionFailureIsNotFatal(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), mock.Anything).
		Return(storage.QuestionRow{ID: 10, Text: "Pick primes", QuestionType: quiz.TypeSingle}, nil).Once()
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(2), mock.Anything).
		Return(storage.AnswerRow{}, &storage.TransportFailure{Op: "update answer", Err: errors.New("reset")}).Once()

	u, err := s.UpdateQuestion(context.Background(), 10, "Pick primes", quiz.TypeSingle)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, u.Demoted)

	q, _ := s.Question(10)
	require.Equal(t, quiz.TypeSingle, q.Type)
	require.Equal(t, 1, q.CorrectCount())
	store.AssertExpectations(t)
}

func TestSession_UpdateQuestion_SingleToMultiple_NoDemotions(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(20), mock.Anything).
		Return(storage.QuestionRow{ID: 20, Text: "Capital of France", QuestionType: quiz.TypeMultiple}, nil).Once()

	u, err := s.UpdateQuestion(context.Background(), 20, "Capital of France", quiz.TypeMultiple)
	require.NoError(t, err)
	require.True(t, u.Transitioned)
	require.Empty(t, u.Demoted)
	require.Equal(t, quiz.InputCheckbox, u.Question.Render[0].Input)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_UpdateQuestion_Idempotent(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())
	ctx := context.Background()

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), mock.Anything).
		Return(storage.QuestionRow{ID: 10, Text: "Pick primes", QuestionType: quiz.TypeSingle}, nil).Once()
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(2), mock.Anything).
		Return(storage.AnswerRow{ID: 2, Text: "3"}, nil).Once()

	_, err := s.UpdateQuestion(ctx, 10, "Pick primes", quiz.TypeSingle)
	require.NoError(t, err)
	before, _ := s.Question(10)

	u, err := s.UpdateQuestion(ctx, 10, " Pick primes ", quiz.TypeSingle)
	require.NoError(t, err)
	require.False(t, u.Transitioned)
	require.Empty(t, u.Demoted)

	after, _ := s.Question(10)
	require.Equal(t, before, after)
	store.AssertExpectations(t)
}

func TestSession_UpdateQuestion_TextOnly(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), storage.QuestionInput{Text: "Pick all primes", QuestionType: quiz.TypeMultiple}).
		Return(storage.QuestionRow{ID: 10, Text: "Pick all primes", QuestionType: quiz.TypeMultiple}, nil).Once()

	u, err := s.UpdateQuestion(context.Background(), 10, "Pick all primes", quiz.TypeMultiple)
	require.NoError(t, err)
	require.False(t, u.Transitioned)
	require.Equal(t, "Pick all primes", u.Question.Text)
	require.Equal(t, 2, u.Question.CorrectCount())
	store.AssertExpectations(t)
}

func TestSession_UpdateQuestion_Rejected_RollsBack(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())
	before, _ := s.Question(10)

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), mock.Anything).
		Return(storage.QuestionRow{}, rejected("update question")).Once()

	_, err := s.UpdateQuestion(context.Background(), 10, "Pick primes", quiz.TypeSingle)
	require.True(t, storage.IsRemoteRejected(err))

	after, _ := s.Question(10)
	require.Equal(t, before, after)
	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_UpdateQuestion_TransportFailure_RollsBack(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())
	before, _ := s.Question(10)

	store.On("UpdateQuestion", mock.Anything, testQuizID, int64(10), mock.Anything).
		Return(storage.QuestionRow{}, &storage.TransportFailure{Op: "update question", Err: errors.New("timeout")}).Once()

	_, err := s.UpdateQuestion(context.Background(), 10, "Pick primes", quiz.TypeSingle)
	require.True(t, storage.IsTransportFailure(err))

	after, _ := s.Question(10)
	require.Equal(t, before, after)
}

func TestSession_UpdateQuestion_Validation(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())
	ctx := context.Background()

	_, err := s.UpdateQuestion(ctx, 10, "  ", quiz.TypeSingle)
	require.ErrorIs(t, err, quiz.ErrEmptyText)

	_, err = s.UpdateQuestion(ctx, 10, "Q", quiz.QuestionType("essay"))
	require.ErrorIs(t, err, quiz.ErrUnknownType)

	_, err = s.UpdateQuestion(ctx, 99, "Q", quiz.TypeSingle)
	require.ErrorIs(t, err, quiz.ErrQuestionNotFound)

	store.AssertNotCalled(t, "UpdateQuestion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_UpdateAnswer_ExplicitWins(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(22), storage.AnswerInput{Text: "Lyon", IsCorrect: true}).
		Return(storage.AnswerRow{ID: 22, Text: "Lyon", IsCorrect: true}, nil).Once()
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(21), storage.AnswerInput{Text: "Paris", IsCorrect: false}).
		Return(storage.AnswerRow{ID: 21, Text: "Paris", IsCorrect: false}, nil).Once()

	u, err := s.UpdateAnswer(context.Background(), 22, "Lyon", true)
	require.NoError(t, err)
	require.Equal(t, int64(20), u.QuestionID)
	require.Equal(t, []int64{21}, u.Demoted)

	q, _ := s.Question(20)
	require.False(t, q.Answers[0].IsCorrect)
	require.True(t, q.Answers[1].IsCorrect)
	store.AssertExpectations(t)
}

func TestSession_UpdateAnswer_MultipleKeepsSiblings(t *testing.T) {
	s, store := newTestSession(t, multiQuestion())

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(3), storage.AnswerInput{Text: "4", IsCorrect: true}).
		Return(storage.AnswerRow{ID: 3, Text: "4", IsCorrect: true}, nil).Once()

	u, err := s.UpdateAnswer(context.Background(), 3, "4", true)
	require.NoError(t, err)
	require.Empty(t, u.Demoted)

	q, _ := s.Question(10)
	require.Equal(t, 3, q.CorrectCount())
	store.AssertExpectations(t)
}

func TestSession_UpdateAnswer_Rejected_RollsBack(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())
	before, _ := s.Question(20)

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(22), mock.Anything).
		Return(storage.AnswerRow{}, rejected("update answer")).Once()

	_, err := s.UpdateAnswer(context.Background(), 22, "Lyon", true)
	require.Error(t, err)

	after, _ := s.Question(20)
	require.Equal(t, before, after)
	store.AssertNumberOfCalls(t, "UpdateAnswer", 1)
}

func TestSession_UpdateAnswer_NoChange_NoRemoteCall(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	u, err := s.UpdateAnswer(context.Background(), 21, "Paris", true)
	require.NoError(t, err)
	require.Equal(t, "Paris", u.Answer.Text)
	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_UpdateAnswer_Validation(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())
	ctx := context.Background()

	_, err := s.UpdateAnswer(ctx, 21, "", true)
	require.ErrorIs(t, err, quiz.ErrEmptyText)

	_, err = s.UpdateAnswer(ctx, 404, "x", true)
	require.ErrorIs(t, err, quiz.ErrAnswerNotFound)

	store.AssertNotCalled(t, "UpdateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_UpdateAnswer_BusyWhileInFlight(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(22), mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(storage.AnswerRow{ID: 22, Text: "Lyon!", IsCorrect: false}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.UpdateAnswer(ctx, 22, "Lyon!", false)
		done <- err
	}()
	<-started

	_, err := s.UpdateAnswer(ctx, 22, "Lyon?", false)
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	store.AssertExpectations(t)
}

func TestSession_AddAnswer_AppendsInOrder(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("CreateAnswer", mock.Anything, testQuizID, int64(20), storage.AnswerInput{Text: DefaultAnswerText, IsCorrect: false}).
		Return(storage.AnswerRow{ID: 23, Text: DefaultAnswerText, IsCorrect: false}, nil).Once()

	u, err := s.AddAnswer(context.Background(), 20, "", false)
	require.NoError(t, err)
	require.Equal(t, int64(23), u.Answer.ID)
	require.Len(t, u.Render, 3)
	require.Equal(t, int64(23), u.Render[2].ID)

	q, _ := s.Question(20)
	require.Equal(t, 1, q.CorrectCount())
	store.AssertExpectations(t)
}

func TestSession_AddAnswer_CorrectOnSingle_DemotesHolder(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("CreateAnswer", mock.Anything, testQuizID, int64(20), storage.AnswerInput{Text: "Marseille", IsCorrect: true}).
		Return(storage.AnswerRow{ID: 23, Text: "Marseille", IsCorrect: true}, nil).Once()
	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(21), storage.AnswerInput{Text: "Paris", IsCorrect: false}).
		Return(storage.AnswerRow{ID: 21, Text: "Paris"}, nil).Once()

	u, err := s.AddAnswer(context.Background(), 20, "Marseille", true)
	require.NoError(t, err)
	require.Equal(t, []int64{21}, u.Demoted)

	q, _ := s.Question(20)
	require.Equal(t, 1, q.CorrectCount())
	require.True(t, q.Answers[2].IsCorrect)
	store.AssertExpectations(t)
}

func TestSession_AddAnswer_Rejected(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())
	before, _ := s.Question(20)

	store.On("CreateAnswer", mock.Anything, testQuizID, int64(20), mock.Anything).
		Return(storage.AnswerRow{}, rejected("create answer")).Once()

	_, err := s.AddAnswer(context.Background(), 20, "x", false)
	require.Error(t, err)

	after, _ := s.Question(20)
	require.Equal(t, before, after)
}

func TestSession_AddAnswer_UnknownQuestion(t *testing.T) {
	s, store := newTestSession(t)

	_, err := s.AddAnswer(context.Background(), 1, "x", false)
	require.ErrorIs(t, err, quiz.ErrQuestionNotFound)
	store.AssertNotCalled(t, "CreateAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_DeleteAnswer_NeverAddsCorrect(t *testing.T) {
	for _, id := range []int64{21, 22} {
		s, store := newTestSession(t, singleQuestion())
		before, _ := s.Question(20)

		store.On("DeleteAnswer", mock.Anything, testQuizID, id).Return(nil).Once()

		u, err := s.DeleteAnswer(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, id, u.Answer.ID)
		require.Len(t, u.Render, 1)

		after, _ := s.Question(20)
		require.LessOrEqual(t, after.CorrectCount(), before.CorrectCount())
		require.Equal(t, -1, after.AnswerIndex(id))
		store.AssertExpectations(t)
	}
}

func TestSession_DeleteAnswer_Rejected(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("DeleteAnswer", mock.Anything, testQuizID, int64(21)).Return(rejected("delete answer")).Once()

	_, err := s.DeleteAnswer(context.Background(), 21)
	require.Error(t, err)

	q, _ := s.Question(20)
	require.Len(t, q.Answers, 2)
}

func TestSession_DeleteQuestion_Cascades(t *testing.T) {
	s, store := newTestSession(t, singleQuestion(), multiQuestion())
	ctx := context.Background()

	store.On("DeleteQuestion", mock.Anything, testQuizID, int64(20)).Return(nil).Once()

	require.NoError(t, s.DeleteQuestion(ctx, 20))

	st := s.State()
	require.Len(t, st.Questions, 1)
	require.Equal(t, 1, st.Questions[0].Number)

	_, err := s.UpdateAnswer(ctx, 21, "Paris", false)
	require.ErrorIs(t, err, quiz.ErrAnswerNotFound)

	require.ErrorIs(t, s.DeleteQuestion(ctx, 20), quiz.ErrQuestionNotFound)
	store.AssertExpectations(t)
}

func TestSession_DeleteQuestion_Rejected(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	store.On("DeleteQuestion", mock.Anything, testQuizID, int64(20)).Return(rejected("delete question")).Once()

	require.Error(t, s.DeleteQuestion(context.Background(), 20))
	_, ok := s.Question(20)
	require.True(t, ok)
}

func TestSession_StoreCallsSurviveCallerCancellation(t *testing.T) {
	s, store := newTestSession(t, singleQuestion())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store.On("DeleteQuestion", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), testQuizID, int64(20)).
		Return(nil).Once()

	require.NoError(t, s.DeleteQuestion(ctx, 20))
	store.AssertExpectations(t)
}

func inconsistentSingle() quiz.Question {
	return quiz.Question{
		ID:   40,
		Text: "Largest planet",
		Type: quiz.TypeSingle,
		Answers: []quiz.Answer{
			{ID: 41, Text: "Jupiter", IsCorrect: true},
			{ID: 42, Text: "Saturn", IsCorrect: true},
			{ID: 43, Text: "Mars", IsCorrect: false},
		},
	}
}

func TestSession_Load_RepairsSeededSingleFirstWins(t *testing.T) {
	store := new(mockKnowledgeStore)
	s := NewSession(testQuizID, store, zap.NewNop())

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(42), storage.AnswerInput{Text: "Saturn", IsCorrect: false}).
		Return(storage.AnswerRow{ID: 42, Text: "Saturn"}, nil).Once()

	demoted, err := s.Load(context.Background(), []quiz.Question{inconsistentSingle(), multiQuestion()})
	require.NoError(t, err)
	require.Equal(t, []int64{42}, demoted)

	q, ok := s.Question(40)
	require.True(t, ok)
	require.Equal(t, 1, q.CorrectCount())
	require.True(t, q.Answers[0].IsCorrect)
	require.False(t, q.Answers[1].IsCorrect)

	m, ok := s.Question(10)
	require.True(t, ok)
	require.Equal(t, 2, m.CorrectCount())

	store.AssertExpectations(t)
}

func TestSession_Load_DemotionFailureKeepsLocalRepair(t *testing.T) {
	store := new(mockKnowledgeStore)
	s := NewSession(testQuizID, store, zap.NewNop())

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(42), mock.Anything).
		Return(storage.AnswerRow{}, &storage.TransportFailure{Op: "update answer", Err: errors.New("reset")}).Once()

	_, err := s.Load(context.Background(), []quiz.Question{inconsistentSingle()})
	require.NoError(t, err)

	q, _ := s.Question(40)
	require.Equal(t, 1, q.CorrectCount())

	store.On("UpdateAnswer", mock.Anything, testQuizID, int64(43), storage.AnswerInput{Text: "Venus", IsCorrect: false}).
		Return(storage.AnswerRow{ID: 43, Text: "Venus"}, nil).Once()

	_, err = s.UpdateAnswer(context.Background(), 43, "Venus", false)
	require.NoError(t, err)
	q, _ = s.Question(40)
	require.Equal(t, 1, q.CorrectCount())

	store.AssertExpectations(t)
}

func TestSession_AddQuestion_UnusableIDNotCommitted(t *testing.T) {
	for _, id := range []int64{0, 20} {
		s, store := newTestSession(t, singleQuestion())

		store.On("CreateQuestion", mock.Anything, testQuizID, mock.Anything).
			Return(storage.QuestionRow{ID: id, Text: "Q", QuestionType: quiz.TypeSingle}, nil).Once()

		_, err := s.AddQuestion(context.Background(), "Q", quiz.TypeSingle)
		require.True(t, storage.IsTransportFailure(err), "id %d", id)

		st := s.State()
		require.Len(t, st.Questions, 1)
		require.Len(t, st.Questions[0].Answers, 2)
	}
}

func TestSession_AddAnswer_CollidingIDNotCommitted(t *testing.T) {
	s, store := newTestSession(t, singleQuestion(), multiQuestion())

	store.On("CreateAnswer", mock.Anything, testQuizID, int64(10), mock.Anything).
		Return(storage.AnswerRow{ID: 21, Text: "5"}, nil).Once()

	_, err := s.AddAnswer(context.Background(), 10, "5", false)
	require.True(t, storage.IsTransportFailure(err))

	owner, ok := s.answers.OwnerOf(21)
	require.True(t, ok)
	require.Equal(t, int64(20), owner.ID)

	m, _ := s.Question(10)
	require.Len(t, m.Answers, 3)
}
