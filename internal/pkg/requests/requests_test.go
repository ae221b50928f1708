package requests

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type fakeDoer struct {
	status  int
	body    []byte
	gzip    bool
	err     error
	calls   int
	lastURI string
}

func (f *fakeDoer) DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	f.calls++
	f.lastURI = string(req.RequestURI())
	if f.err != nil {
		return f.err
	}
	resp.SetStatusCode(f.status)
	if f.gzip {
		resp.Header.Set("Content-Encoding", "gzip")
		resp.SetBody(fasthttp.AppendGzipBytes(nil, f.body))
	} else {
		resp.SetBody(f.body)
	}
	return nil
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name     string
		doer     *fakeDoer
		expected []byte
		err      error
	}{
		{
			name:     "plain body",
			doer:     &fakeDoer{status: 200, body: []byte("<html></html>")},
			expected: []byte("<html></html>"),
		},
		{
			name:     "gzip body",
			doer:     &fakeDoer{status: 200, body: []byte("<html>zipped</html>"), gzip: true},
			expected: []byte("<html>zipped</html>"),
		},
		{
			name: "non 200",
			doer: &fakeDoer{status: 503},
			err:  ErrUnexpectedStatus,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, err := NewClientWith(tc.doer, time.Second).Get("https://classes.berkeley.edu/content/x")
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, body)
			assert.Equal(t, 1, tc.doer.calls)
		})
	}
}

func TestClient_GetSingleAttempt(t *testing.T) {
	doer := &fakeDoer{err: errors.New("connection reset")}
	_, err := NewClientWith(doer, time.Second).Get("https://classes.berkeley.edu/content/x")
	assert.Error(t, err)
	assert.Equal(t, 1, doer.calls)
}
