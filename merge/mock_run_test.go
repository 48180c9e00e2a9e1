package merge

import (
	"reflect"

	"github.com/golang/mock/gomock"
)

// MockReadableRun is a hand-authored gomock mock of ReadableRun, in the
// same shape `mockgen` produces, used to assert that mergeGroup closes
// every run exactly once as it exhausts it.
type MockReadableRun struct {
	ctrl     *gomock.Controller
	recorder *MockReadableRunMockRecorder
}

type MockReadableRunMockRecorder struct {
	mock *MockReadableRun
}

func NewMockReadableRun(ctrl *gomock.Controller) *MockReadableRun {
	mock := &MockReadableRun{ctrl: ctrl}
	mock.recorder = &MockReadableRunMockRecorder{mock}
	return mock
}

func (m *MockReadableRun) EXPECT() *MockReadableRunMockRecorder {
	return m.recorder
}

func (m *MockReadableRun) Next() ([]byte, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Next")
	rec, _ := ret[0].([]byte)
	ok, _ := ret[1].(bool)
	err, _ := ret[2].(error)
	return rec, ok, err
}

func (mr *MockReadableRunMockRecorder) Next() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Next", reflect.TypeOf((*MockReadableRun)(nil).Next))
}

func (m *MockReadableRun) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockReadableRunMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockReadableRun)(nil).Close))
}
