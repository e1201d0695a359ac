package tacplus

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tacplus/tacplus-go/wire"
)

// AccountingResponse is the outcome of a single accounting record
// exchange (start, update, or stop).
type AccountingResponse struct {
	ServerMessage string
	Data          []byte
}

// Task is a logical unit of work bracketed by accounting start and
// stop records, all sharing one task_id. A Task borrows its Session:
// StartTask, Update, and Stop are each a separate top-level exchange,
// so each draws its own RFC 8907 session_id and sequence counter
// (restarting at 1); what they share is task_id and the Session's
// cached connection and single-connection latch.
type Task struct {
	session   *Session
	sessCtx   SessionContext
	method    wire.AuthenticationMethod
	taskID    string
	startTime time.Time
}

// StartTask opens a new accounting task, sending a Start record with
// task_id and start_time prepended to args.
func (s *Session) StartTask(ctx context.Context, sessCtx SessionContext, method wire.AuthenticationMethod, args []wire.Argument) (*Task, AccountingResponse, error) {
	taskID := uuid.NewString()
	startTime := time.Now()

	taskIDArg, err := requiredArgument("task_id", taskID)
	if err != nil {
		return nil, AccountingResponse{}, err
	}
	startTimeArg, err := requiredArgument("start_time", strconv.FormatInt(startTime.Unix(), 10))
	if err != nil {
		return nil, AccountingResponse{}, err
	}

	resp, err := s.accountingRecord(ctx, sessCtx, method, wire.AccountingStartRecord, prependArgs(taskIDArg, startTimeArg, args))
	if err != nil {
		return nil, AccountingResponse{}, err
	}

	return &Task{session: s, sessCtx: sessCtx, method: method, taskID: taskID, startTime: startTime}, resp, nil
}

// Update sends a watchdog record carrying task_id and elapsed_time.
func (t *Task) Update(ctx context.Context, args []wire.Argument) (AccountingResponse, error) {
	taskIDArg, err := requiredArgument("task_id", t.taskID)
	if err != nil {
		return AccountingResponse{}, err
	}
	elapsed := time.Since(t.startTime)
	elapsedArg, err := requiredArgument("elapsed_time", strconv.FormatInt(int64(elapsed.Seconds()), 10))
	if err != nil {
		return AccountingResponse{}, err
	}

	return t.session.accountingRecord(ctx, t.sessCtx, t.method, wire.AccountingWatchdogUpdate, prependArgs(taskIDArg, elapsedArg, args))
}

// Stop sends the closing record carrying task_id and stop_time.
func (t *Task) Stop(ctx context.Context, args []wire.Argument) (AccountingResponse, error) {
	taskIDArg, err := requiredArgument("task_id", t.taskID)
	if err != nil {
		return AccountingResponse{}, err
	}
	stopTimeArg, err := requiredArgument("stop_time", strconv.FormatInt(time.Now().Unix(), 10))
	if err != nil {
		return AccountingResponse{}, err
	}

	return t.session.accountingRecord(ctx, t.sessCtx, t.method, wire.AccountingStopRecord, prependArgs(taskIDArg, stopTimeArg, args))
}

func requiredArgument(name, value string) (wire.Argument, error) {
	nameField, err := wire.NewTextField(name)
	if err != nil {
		return wire.Argument{}, err
	}
	valueField, err := wire.NewTextField(value)
	if err != nil {
		return wire.Argument{}, err
	}
	return wire.NewArgument(nameField, valueField, true)
}

func prependArgs(a, b wire.Argument, rest []wire.Argument) []wire.Argument {
	args := make([]wire.Argument, 0, 2+len(rest))
	args = append(args, a, b)
	args = append(args, rest...)
	return args
}

func (s *Session) accountingRecord(ctx context.Context, sessCtx SessionContext, method wire.AuthenticationMethod, flags wire.AccountingFlags, args []wire.Argument) (AccountingResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return AccountingResponse{}, err
	}
	defer release()

	user, err := sessCtx.userInformation()
	if err != nil {
		return AccountingResponse{}, err
	}
	argList, err := wire.NewArgumentList(args)
	if err != nil {
		return AccountingResponse{}, err
	}

	authenCtx := sessCtx.authenticationContext(wire.AuthenticationTypeNotSet, wire.AuthenticationServiceLogin)
	request := wire.NewAccountingRequest(flags, method, authenCtx, user, argList)

	reply, err := roundTrip[wire.AccountingRequest, wire.AccountingReply](ctx, s, versionFor(wire.AuthenticationTypeNotSet), request, wire.DeserializeAccountingReply)
	s.metrics.observeExchange("accounting", outcomeFor(err))
	if err != nil {
		return AccountingResponse{}, err
	}

	switch reply.Body.Status {
	case wire.AccountingStatusSuccess:
		return AccountingResponse{ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}, nil
	default:
		return AccountingResponse{}, &ProtocolError{Family: "accounting", ServerMessage: reply.Body.ServerMessage.String(), Data: reply.Body.Data}
	}
}
