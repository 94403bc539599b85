// Package mockremote holds a hand-authored gomock-style mock of
// reconstruct.RemoteReader, in the shape `mockgen` produces, for
// reconstruct's coordinator tests.
//
//go:generate mockgen -destination=remotereader.go -package=mockremote github.com/tracerepair/tr/reconstruct RemoteReader
package mockremote

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockRemoteReader is a mock of the RemoteReader interface.
type MockRemoteReader struct {
	ctrl     *gomock.Controller
	recorder *MockRemoteReaderMockRecorder
}

// MockRemoteReaderMockRecorder is the mock recorder for MockRemoteReader.
type MockRemoteReaderMockRecorder struct {
	mock *MockRemoteReader
}

// NewMockRemoteReader creates a new mock instance.
func NewMockRemoteReader(ctrl *gomock.Controller) *MockRemoteReader {
	mock := &MockRemoteReader{ctrl: ctrl}
	mock.recorder = &MockRemoteReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRemoteReader) EXPECT() *MockRemoteReaderMockRecorder {
	return m.recorder
}

// Open mocks base method.
func (m *MockRemoteReader) Open(ctx context.Context, sourceIndex int, offset int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Open", ctx, sourceIndex, offset)
	ret0, _ := ret[0].(error)
	return ret0
}

// Open indicates an expected call of Open.
func (mr *MockRemoteReaderMockRecorder) Open(ctx, sourceIndex, offset any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Open", reflect.TypeOf((*MockRemoteReader)(nil).Open), ctx, sourceIndex, offset)
}

// Read mocks base method.
func (m *MockRemoteReader) Read(ctx context.Context, p []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", ctx, p)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Read indicates an expected call of Read.
func (mr *MockRemoteReaderMockRecorder) Read(ctx, p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockRemoteReader)(nil).Read), ctx, p)
}

// BlockLength mocks base method.
func (m *MockRemoteReader) BlockLength() int64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BlockLength")
	ret0, _ := ret[0].(int64)
	return ret0
}

// BlockLength indicates an expected call of BlockLength.
func (mr *MockRemoteReaderMockRecorder) BlockLength() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BlockLength", reflect.TypeOf((*MockRemoteReader)(nil).BlockLength))
}

// Close mocks base method.
func (m *MockRemoteReader) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	ret0, _ := ret[0].(error)
	return ret0
}

// Close indicates an expected call of Close.
func (mr *MockRemoteReaderMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockRemoteReader)(nil).Close))
}
