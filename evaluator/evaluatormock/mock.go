// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package evaluatormock provides a gomock-generated-style mock of
// evaluator.Evaluator for tests that need to script specific
// Propose/Validate/HealthCheck sequences rather than reach for one of
// the evaluator package's concrete policies.
package evaluatormock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/lux-agents/bftagent/types"
)

// Evaluator is a mock of the evaluator.Evaluator interface.
type Evaluator struct {
	ctrl     *gomock.Controller
	recorder *EvaluatorMockRecorder
}

// EvaluatorMockRecorder is the recorder for Evaluator.
type EvaluatorMockRecorder struct {
	mock *Evaluator
}

// NewEvaluator creates a new mock instance.
func NewEvaluator(ctrl *gomock.Controller) *Evaluator {
	mock := &Evaluator{ctrl: ctrl}
	mock.recorder = &EvaluatorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *Evaluator) EXPECT() *EvaluatorMockRecorder {
	return m.recorder
}

// Propose mocks base method.
func (m *Evaluator) Propose(ctx context.Context, task types.Task) (types.Proposal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Propose", ctx, task)
	ret0, _ := ret[0].(types.Proposal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Propose indicates an expected call of Propose.
func (mr *EvaluatorMockRecorder) Propose(ctx, task interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Propose", reflect.TypeOf((*Evaluator)(nil).Propose), ctx, task)
}

// Validate mocks base method.
func (m *Evaluator) Validate(ctx context.Context, proposal types.Proposal) (types.Verdict, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Validate", ctx, proposal)
	ret0, _ := ret[0].(types.Verdict)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Validate indicates an expected call of Validate.
func (mr *EvaluatorMockRecorder) Validate(ctx, proposal interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Validate", reflect.TypeOf((*Evaluator)(nil).Validate), ctx, proposal)
}

// HealthCheck mocks base method.
func (m *Evaluator) HealthCheck(ctx context.Context) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HealthCheck", ctx)
	ret0, _ := ret[0].(bool)
	return ret0
}

// HealthCheck indicates an expected call of HealthCheck.
func (mr *EvaluatorMockRecorder) HealthCheck(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HealthCheck", reflect.TypeOf((*Evaluator)(nil).HealthCheck), ctx)
}
