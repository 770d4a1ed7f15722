// Package apiconnect wires the mealledger.v1.LedgerService messages to Connect
// handlers and clients using api.JSONCodec.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "mealledger.v1.LedgerService"

// Fully-qualified procedure names, used as the HTTP route of each RPC.
const (
	LedgerServiceUpsertTrackingProcedure      = "/mealledger.v1.LedgerService/UpsertTracking"
	LedgerServiceBulkUpsertTrackingProcedure  = "/mealledger.v1.LedgerService/BulkUpsertTracking"
	LedgerServiceGetTrackingByDateProcedure   = "/mealledger.v1.LedgerService/GetTrackingByDate"
	LedgerServiceSetDailyCostProcedure        = "/mealledger.v1.LedgerService/SetDailyCost"
	LedgerServiceGetDailyCostProcedure        = "/mealledger.v1.LedgerService/GetDailyCost"
	LedgerServiceGetBalanceProcedure          = "/mealledger.v1.LedgerService/GetBalance"
	LedgerServiceProcessBillingMonthProcedure = "/mealledger.v1.LedgerService/ProcessBillingMonth"
	LedgerServiceReopenBillingMonthProcedure  = "/mealledger.v1.LedgerService/ReopenBillingMonth"
	LedgerServiceGetBillingSnapshotsProcedure = "/mealledger.v1.LedgerService/GetBillingSnapshots"
	LedgerServiceRecordDepositProcedure       = "/mealledger.v1.LedgerService/RecordDeposit"
	LedgerServiceSetDepositStatusProcedure    = "/mealledger.v1.LedgerService/SetDepositStatus"
	LedgerServiceSettleDateProcedure          = "/mealledger.v1.LedgerService/SettleDate"
	LedgerServiceGetMonthSummaryProcedure     = "/mealledger.v1.LedgerService/GetMonthSummary"
)

// LedgerServiceClient is a client for the mealledger.v1.LedgerService service.
type LedgerServiceClient interface {
	UpsertTracking(context.Context, *connect.Request[api.UpsertTrackingRequest]) (*connect.Response[api.UpsertTrackingResponse], error)
	BulkUpsertTracking(context.Context, *connect.Request[api.BulkUpsertTrackingRequest]) (*connect.Response[api.BulkUpsertTrackingResponse], error)
	GetTrackingByDate(context.Context, *connect.Request[api.GetTrackingByDateRequest]) (*connect.Response[api.GetTrackingByDateResponse], error)
	SetDailyCost(context.Context, *connect.Request[api.SetDailyCostRequest]) (*connect.Response[api.SetDailyCostResponse], error)
	GetDailyCost(context.Context, *connect.Request[api.GetDailyCostRequest]) (*connect.Response[api.GetDailyCostResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	ProcessBillingMonth(context.Context, *connect.Request[api.ProcessBillingMonthRequest]) (*connect.Response[api.ProcessBillingMonthResponse], error)
	ReopenBillingMonth(context.Context, *connect.Request[api.ReopenBillingMonthRequest]) (*connect.Response[api.ReopenBillingMonthResponse], error)
	GetBillingSnapshots(context.Context, *connect.Request[api.GetBillingSnapshotsRequest]) (*connect.Response[api.GetBillingSnapshotsResponse], error)
	RecordDeposit(context.Context, *connect.Request[api.RecordDepositRequest]) (*connect.Response[api.RecordDepositResponse], error)
	SetDepositStatus(context.Context, *connect.Request[api.SetDepositStatusRequest]) (*connect.Response[api.SetDepositStatusResponse], error)
	SettleDate(context.Context, *connect.Request[api.SettleDateRequest]) (*connect.Response[api.SettleDateResponse], error)
	GetMonthSummary(context.Context, *connect.Request[api.GetMonthSummaryRequest]) (*connect.Response[api.GetMonthSummaryResponse], error)
}

// NewLedgerServiceClient constructs a client for the mealledger.v1.LedgerService
// service. baseURL is the scheme and host of the server, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		upsertTracking: connect.NewClient[api.UpsertTrackingRequest, api.UpsertTrackingResponse](
			httpClient,
			baseURL+LedgerServiceUpsertTrackingProcedure,
			opts...,
		),
		bulkUpsertTracking: connect.NewClient[api.BulkUpsertTrackingRequest, api.BulkUpsertTrackingResponse](
			httpClient,
			baseURL+LedgerServiceBulkUpsertTrackingProcedure,
			opts...,
		),
		getTrackingByDate: connect.NewClient[api.GetTrackingByDateRequest, api.GetTrackingByDateResponse](
			httpClient,
			baseURL+LedgerServiceGetTrackingByDateProcedure,
			opts...,
		),
		setDailyCost: connect.NewClient[api.SetDailyCostRequest, api.SetDailyCostResponse](
			httpClient,
			baseURL+LedgerServiceSetDailyCostProcedure,
			opts...,
		),
		getDailyCost: connect.NewClient[api.GetDailyCostRequest, api.GetDailyCostResponse](
			httpClient,
			baseURL+LedgerServiceGetDailyCostProcedure,
			opts...,
		),
		getBalance: connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](
			httpClient,
			baseURL+LedgerServiceGetBalanceProcedure,
			opts...,
		),
		processBillingMonth: connect.NewClient[api.ProcessBillingMonthRequest, api.ProcessBillingMonthResponse](
			httpClient,
			baseURL+LedgerServiceProcessBillingMonthProcedure,
			opts...,
		),
		reopenBillingMonth: connect.NewClient[api.ReopenBillingMonthRequest, api.ReopenBillingMonthResponse](
			httpClient,
			baseURL+LedgerServiceReopenBillingMonthProcedure,
			opts...,
		),
		getBillingSnapshots: connect.NewClient[api.GetBillingSnapshotsRequest, api.GetBillingSnapshotsResponse](
			httpClient,
			baseURL+LedgerServiceGetBillingSnapshotsProcedure,
			opts...,
		),
		recordDeposit: connect.NewClient[api.RecordDepositRequest, api.RecordDepositResponse](
			httpClient,
			baseURL+LedgerServiceRecordDepositProcedure,
			opts...,
		),
		setDepositStatus: connect.NewClient[api.SetDepositStatusRequest, api.SetDepositStatusResponse](
			httpClient,
			baseURL+LedgerServiceSetDepositStatusProcedure,
			opts...,
		),
		settleDate: connect.NewClient[api.SettleDateRequest, api.SettleDateResponse](
			httpClient,
			baseURL+LedgerServiceSettleDateProcedure,
			opts...,
		),
		getMonthSummary: connect.NewClient[api.GetMonthSummaryRequest, api.GetMonthSummaryResponse](
			httpClient,
			baseURL+LedgerServiceGetMonthSummaryProcedure,
			opts...,
		),
	}
}

type ledgerServiceClient struct {
	upsertTracking      *connect.Client[api.UpsertTrackingRequest, api.UpsertTrackingResponse]
	bulkUpsertTracking  *connect.Client[api.BulkUpsertTrackingRequest, api.BulkUpsertTrackingResponse]
	getTrackingByDate   *connect.Client[api.GetTrackingByDateRequest, api.GetTrackingByDateResponse]
	setDailyCost        *connect.Client[api.SetDailyCostRequest, api.SetDailyCostResponse]
	getDailyCost        *connect.Client[api.GetDailyCostRequest, api.GetDailyCostResponse]
	getBalance          *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	processBillingMonth *connect.Client[api.ProcessBillingMonthRequest, api.ProcessBillingMonthResponse]
	reopenBillingMonth  *connect.Client[api.ReopenBillingMonthRequest, api.ReopenBillingMonthResponse]
	getBillingSnapshots *connect.Client[api.GetBillingSnapshotsRequest, api.GetBillingSnapshotsResponse]
	recordDeposit       *connect.Client[api.RecordDepositRequest, api.RecordDepositResponse]
	setDepositStatus    *connect.Client[api.SetDepositStatusRequest, api.SetDepositStatusResponse]
	settleDate          *connect.Client[api.SettleDateRequest, api.SettleDateResponse]
	getMonthSummary     *connect.Client[api.GetMonthSummaryRequest, api.GetMonthSummaryResponse]
}

func (c *ledgerServiceClient) UpsertTracking(ctx context.Context, req *connect.Request[api.UpsertTrackingRequest]) (*connect.Response[api.UpsertTrackingResponse], error) {
	return c.upsertTracking.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) BulkUpsertTracking(ctx context.Context, req *connect.Request[api.BulkUpsertTrackingRequest]) (*connect.Response[api.BulkUpsertTrackingResponse], error) {
	return c.bulkUpsertTracking.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetTrackingByDate(ctx context.Context, req *connect.Request[api.GetTrackingByDateRequest]) (*connect.Response[api.GetTrackingByDateResponse], error) {
	return c.getTrackingByDate.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetDailyCost(ctx context.Context, req *connect.Request[api.SetDailyCostRequest]) (*connect.Response[api.SetDailyCostResponse], error) {
	return c.setDailyCost.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDailyCost(ctx context.Context, req *connect.Request[api.GetDailyCostRequest]) (*connect.Response[api.GetDailyCostResponse], error) {
	return c.getDailyCost.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ProcessBillingMonth(ctx context.Context, req *connect.Request[api.ProcessBillingMonthRequest]) (*connect.Response[api.ProcessBillingMonthResponse], error) {
	return c.processBillingMonth.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ReopenBillingMonth(ctx context.Context, req *connect.Request[api.ReopenBillingMonthRequest]) (*connect.Response[api.ReopenBillingMonthResponse], error) {
	return c.reopenBillingMonth.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBillingSnapshots(ctx context.Context, req *connect.Request[api.GetBillingSnapshotsRequest]) (*connect.Response[api.GetBillingSnapshotsResponse], error) {
	return c.getBillingSnapshots.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordDeposit(ctx context.Context, req *connect.Request[api.RecordDepositRequest]) (*connect.Response[api.RecordDepositResponse], error) {
	return c.recordDeposit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetDepositStatus(ctx context.Context, req *connect.Request[api.SetDepositStatusRequest]) (*connect.Response[api.SetDepositStatusResponse], error) {
	return c.setDepositStatus.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleDate(ctx context.Context, req *connect.Request[api.SettleDateRequest]) (*connect.Response[api.SettleDateResponse], error) {
	return c.settleDate.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMonthSummary(ctx context.Context, req *connect.Request[api.GetMonthSummaryRequest]) (*connect.Response[api.GetMonthSummaryResponse], error) {
	return c.getMonthSummary.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server side of mealledger.v1.LedgerService.
type LedgerServiceHandler interface {
	UpsertTracking(context.Context, *connect.Request[api.UpsertTrackingRequest]) (*connect.Response[api.UpsertTrackingResponse], error)
	BulkUpsertTracking(context.Context, *connect.Request[api.BulkUpsertTrackingRequest]) (*connect.Response[api.BulkUpsertTrackingResponse], error)
	GetTrackingByDate(context.Context, *connect.Request[api.GetTrackingByDateRequest]) (*connect.Response[api.GetTrackingByDateResponse], error)
	SetDailyCost(context.Context, *connect.Request[api.SetDailyCostRequest]) (*connect.Response[api.SetDailyCostResponse], error)
	GetDailyCost(context.Context, *connect.Request[api.GetDailyCostRequest]) (*connect.Response[api.GetDailyCostResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	ProcessBillingMonth(context.Context, *connect.Request[api.ProcessBillingMonthRequest]) (*connect.Response[api.ProcessBillingMonthResponse], error)
	ReopenBillingMonth(context.Context, *connect.Request[api.ReopenBillingMonthRequest]) (*connect.Response[api.ReopenBillingMonthResponse], error)
	GetBillingSnapshots(context.Context, *connect.Request[api.GetBillingSnapshotsRequest]) (*connect.Response[api.GetBillingSnapshotsResponse], error)
	RecordDeposit(context.Context, *connect.Request[api.RecordDepositRequest]) (*connect.Response[api.RecordDepositResponse], error)
	SetDepositStatus(context.Context, *connect.Request[api.SetDepositStatusRequest]) (*connect.Response[api.SetDepositStatusResponse], error)
	SettleDate(context.Context, *connect.Request[api.SettleDateRequest]) (*connect.Response[api.SettleDateResponse], error)
	GetMonthSummary(context.Context, *connect.Request[api.GetMonthSummaryRequest]) (*connect.Response[api.GetMonthSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	upsertTrackingHandler := connect.NewUnaryHandler(
		LedgerServiceUpsertTrackingProcedure,
		svc.UpsertTracking,
		opts...,
	)
	bulkUpsertTrackingHandler := connect.NewUnaryHandler(
		LedgerServiceBulkUpsertTrackingProcedure,
		svc.BulkUpsertTracking,
		opts...,
	)
	getTrackingByDateHandler := connect.NewUnaryHandler(
		LedgerServiceGetTrackingByDateProcedure,
		svc.GetTrackingByDate,
		opts...,
	)
	setDailyCostHandler := connect.NewUnaryHandler(
		LedgerServiceSetDailyCostProcedure,
		svc.SetDailyCost,
		opts...,
	)
	getDailyCostHandler := connect.NewUnaryHandler(
		LedgerServiceGetDailyCostProcedure,
		svc.GetDailyCost,
		opts...,
	)
	getBalanceHandler := connect.NewUnaryHandler(
		LedgerServiceGetBalanceProcedure,
		svc.GetBalance,
		opts...,
	)
	processBillingMonthHandler := connect.NewUnaryHandler(
		LedgerServiceProcessBillingMonthProcedure,
		svc.ProcessBillingMonth,
		opts...,
	)
	reopenBillingMonthHandler := connect.NewUnaryHandler(
		LedgerServiceReopenBillingMonthProcedure,
		svc.ReopenBillingMonth,
		opts...,
	)
	getBillingSnapshotsHandler := connect.NewUnaryHandler(
		LedgerServiceGetBillingSnapshotsProcedure,
		svc.GetBillingSnapshots,
		opts...,
	)
	recordDepositHandler := connect.NewUnaryHandler(
		LedgerServiceRecordDepositProcedure,
		svc.RecordDeposit,
		opts...,
	)
	setDepositStatusHandler := connect.NewUnaryHandler(
		LedgerServiceSetDepositStatusProcedure,
		svc.SetDepositStatus,
		opts...,
	)
	settleDateHandler := connect.NewUnaryHandler(
		LedgerServiceSettleDateProcedure,
		svc.SettleDate,
		opts...,
	)
	getMonthSummaryHandler := connect.NewUnaryHandler(
		LedgerServiceGetMonthSummaryProcedure,
		svc.GetMonthSummary,
		opts...,
	)
	return "/mealledger.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceUpsertTrackingProcedure:
			upsertTrackingHandler.ServeHTTP(w, r)
		case LedgerServiceBulkUpsertTrackingProcedure:
			bulkUpsertTrackingHandler.ServeHTTP(w, r)
		case LedgerServiceGetTrackingByDateProcedure:
			getTrackingByDateHandler.ServeHTTP(w, r)
		case LedgerServiceSetDailyCostProcedure:
			setDailyCostHandler.ServeHTTP(w, r)
		case LedgerServiceGetDailyCostProcedure:
			getDailyCostHandler.ServeHTTP(w, r)
		case LedgerServiceGetBalanceProcedure:
			getBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceProcessBillingMonthProcedure:
			processBillingMonthHandler.ServeHTTP(w, r)
		case LedgerServiceReopenBillingMonthProcedure:
			reopenBillingMonthHandler.ServeHTTP(w, r)
		case LedgerServiceGetBillingSnapshotsProcedure:
			getBillingSnapshotsHandler.ServeHTTP(w, r)
		case LedgerServiceRecordDepositProcedure:
			recordDepositHandler.ServeHTTP(w, r)
		case LedgerServiceSetDepositStatusProcedure:
			setDepositStatusHandler.ServeHTTP(w, r)
		case LedgerServiceSettleDateProcedure:
			settleDateHandler.ServeHTTP(w, r)
		case LedgerServiceGetMonthSummaryProcedure:
			getMonthSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) UpsertTracking(context.Context, *connect.Request[api.UpsertTrackingRequest]) (*connect.Response[api.UpsertTrackingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.UpsertTracking is not implemented"))
}

func (UnimplementedLedgerServiceHandler) BulkUpsertTracking(context.Context, *connect.Request[api.BulkUpsertTrackingRequest]) (*connect.Response[api.BulkUpsertTrackingResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.BulkUpsertTracking is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetTrackingByDate(context.Context, *connect.Request[api.GetTrackingByDateRequest]) (*connect.Response[api.GetTrackingByDateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.GetTrackingByDate is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SetDailyCost(context.Context, *connect.Request[api.SetDailyCostRequest]) (*connect.Response[api.SetDailyCostResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.SetDailyCost is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetDailyCost(context.Context, *connect.Request[api.GetDailyCostRequest]) (*connect.Response[api.GetDailyCostResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.GetDailyCost is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.GetBalance is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ProcessBillingMonth(context.Context, *connect.Request[api.ProcessBillingMonthRequest]) (*connect.Response[api.ProcessBillingMonthResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.ProcessBillingMonth is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ReopenBillingMonth(context.Context, *connect.Request[api.ReopenBillingMonthRequest]) (*connect.Response[api.ReopenBillingMonthResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.ReopenBillingMonth is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetBillingSnapshots(context.Context, *connect.Request[api.GetBillingSnapshotsRequest]) (*connect.Response[api.GetBillingSnapshotsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.GetBillingSnapshots is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RecordDeposit(context.Context, *connect.Request[api.RecordDepositRequest]) (*connect.Response[api.RecordDepositResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.RecordDeposit is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SetDepositStatus(context.Context, *connect.Request[api.SetDepositStatusRequest]) (*connect.Response[api.SetDepositStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.SetDepositStatus is not implemented"))
}

func (UnimplementedLedgerServiceHandler) SettleDate(context.Context, *connect.Request[api.SettleDateRequest]) (*connect.Response[api.SettleDateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.SettleDate is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetMonthSummary(context.Context, *connect.Request[api.GetMonthSummaryRequest]) (*connect.Response[api.GetMonthSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("mealledger.v1.LedgerService.GetMonthSummary is not implemented"))
}
