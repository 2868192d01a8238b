package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSessionPath(t *testing.T) {
	tests := []struct {
		path       string
		wantID     string
		wantAction string
	}{
		{path: "/api/sessions/", wantID: "", wantAction: ""},
		{path: "/api/sessions/ses_1", wantID: "ses_1", wantAction: ""},
		{path: "/api/sessions/ses_1/", wantID: "ses_1", wantAction: ""},
		{path: "/api/sessions/ses_1/fetch", wantID: "ses_1", wantAction: "fetch"},
		{path: "/api/sessions/ses_1/document.pdf", wantID: "ses_1", wantAction: "document.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, action := splitSessionPath(tt.path)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}
