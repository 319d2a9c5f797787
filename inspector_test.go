package webhookbot

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type JSONInspectorSuite struct {
	suite.Suite
	inspector Inspector
}

func (s *JSONInspectorSuite) SetupTest() {
	s.inspector = JSONInspector()
}

func TestJSONInspectorSuite(t *testing.T) {
	suite.Run(t, new(JSONInspectorSuite))
}

func (s *JSONInspectorSuite) TestReturnsViewForValidJSON() {
	view, err := s.inspector.Inspect([]byte(`{"update_id": 1}`))

	s.Require().NoError(err)
	s.Assert().NotNil(view)
}

func (s *JSONInspectorSuite) TestReturnsErrorForInvalidJSON() {
	_, err := s.inspector.Inspect([]byte(`{not valid}`))

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *JSONInspectorSuite) TestReturnsErrorForEmptyInput() {
	_, err := s.inspector.Inspect([]byte{})

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *JSONInspectorSuite) TestReturnsErrorForNonObject() {
	_, err := s.inspector.Inspect([]byte(`[1, 2, 3]`))

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

type JSONViewSuite struct {
	suite.Suite
	view View
}

func (s *JSONViewSuite) SetupTest() {
	raw := []byte(`{
		"update_id": 10,
		"callback_query": null,
		"message": {
			"message_id": 5,
			"text": "hello",
			"from": {"id": 7},
			"chat": {"id": -100123}
		}
	}`)

	var err error
	s.view, err = JSONInspector().Inspect(raw)
	s.Require().NoError(err)
}

func TestJSONViewSuite(t *testing.T) {
	suite.Run(t, new(JSONViewSuite))
}

func (s *JSONViewSuite) TestHasField() {
	tests := map[string]struct {
		path   string
		exists bool
	}{
		"top level":      {"update_id", true},
		"object":         {"message", true},
		"nested":         {"message.chat.id", true},
		"null is absent": {"callback_query", false},
		"missing":        {"edited_message", false},
		"nested missing": {"message.chat.title", false},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			s.Assert().Equal(tt.exists, s.view.HasField(tt.path))
		})
	}
}

func (s *JSONViewSuite) TestGetString() {
	val, ok := s.view.GetString("message.text")
	s.Require().True(ok)
	s.Assert().Equal("hello", val)

	_, ok = s.view.GetString("update_id")
	s.Assert().False(ok, "numbers are not strings")

	_, ok = s.view.GetString("message.missing")
	s.Assert().False(ok)
}

func (s *JSONViewSuite) TestGetInt() {
	val, ok := s.view.GetInt("message.chat.id")
	s.Require().True(ok)
	s.Assert().Equal(int64(-100123), val)

	_, ok = s.view.GetInt("message.text")
	s.Assert().False(ok, "strings are not numbers")

	_, ok = s.view.GetInt("missing")
	s.Assert().False(ok)
}
