package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestMakeCode(t *testing.T) {
	tests := []struct {
		service  int
		category int
		sequence int
		expected int
	}{
		{0, 0, 0, 0},
		{0, 1, 1, 1001},
		{21, 1, 2, 2101002},
		{94, 10, 1, 9410001},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.service, tt.category, tt.sequence), func(t *testing.T) {
			got := MakeCode(tt.service, tt.category, tt.sequence)
			assert.Equal(t, tt.expected, got)

			s, c, q := ParseCode(got)
			assert.Equal(t, []int{tt.service, tt.category, tt.sequence}, []int{s, c, q})
		})
	}
}

func TestErrnoCopies(t *testing.T) {
	cause := stderrors.New("disk full")
	e := ErrDatabase.WithCause(cause).WithMessage("write posts")

	assert.Equal(t, "Database error", ErrDatabase.MessageEN, "predefined errno must not be mutated")
	assert.Equal(t, "write posts", e.MessageEN)
	assert.ErrorIs(t, e, cause)
	assert.ErrorIs(t, e, ErrDatabase)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus())
	assert.Equal(t, codes.Internal, e.GRPCStatus())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("resolve: %w", ErrCampusEmptyAnswer)
	assert.Equal(t, ErrCampusEmptyAnswer.Code, FromError(wrapped).Code)
	assert.True(t, IsCode(wrapped, ErrCampusEmptyAnswer.Code))

	plain := FromError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
}

func TestCampusCodes(t *testing.T) {
	assert.True(t, IsClientError(ErrCampusEmptyContent.Code))
	assert.True(t, IsClientError(ErrCampusPermissionDenied.Code))
	assert.True(t, IsServerError(ErrCampusStore.Code))
	assert.Equal(t, http.StatusServiceUnavailable, ErrLLMUnavailable.HTTPStatus())

	got, ok := Lookup(ErrCampusInvalidEmail.Code)
	assert.True(t, ok)
	assert.Same(t, ErrCampusInvalidEmail, got)
}

func TestMessageLanguage(t *testing.T) {
	assert.Equal(t, "帖子内容不能为空", ErrCampusEmptyContent.Message("zh-CN"))
	assert.Equal(t, "Post content is required", ErrCampusEmptyContent.Message("en"))
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(New(ErrInternal.Code, 500, codes.Internal, "dup", "重复"))
	})
}
