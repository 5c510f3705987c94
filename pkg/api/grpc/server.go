// Package grpcapi implements the gRPC surface of the lexer. The Lexer
// service is registered by hand over protobuf well-known types so no
// generated code is needed; batch results are exposed through the standard
// google.longrunning.Operations service.
package grpcapi

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"

	longrunningpb "cloud.google.com/go/longrunning/autogen/longrunningpb"

	"github.com/lemonberrylabs/arith-lexer/pkg/lexer"
	"github.com/lemonberrylabs/arith-lexer/pkg/store"
	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// ErrorDomain is the ErrorInfo domain attached to lexical errors.
const ErrorDomain = "arithlex"

// LexerServer is the server API for the arithlex.v1.Lexer service.
type LexerServer interface {
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ScanBatch(context.Context, *structpb.Struct) (*longrunningpb.Operation, error)
}

// Server implements the Lexer and Operations gRPC services.
type Server struct {
	longrunningpb.UnimplementedOperationsServer

	store *store.Store
	grpc  *grpc.Server
}

// New creates a new gRPC server wrapping the given store.
func New(s *store.Store) *Server {
	srv := &Server{store: s}

	gs := grpc.NewServer()
	gs.RegisterService(&lexerServiceDesc, srv)
	longrunningpb.RegisterOperationsServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// --- Lexer Service ---

// Tokenize scans the "input" field of the request.
func (s *Server) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, ok := req.GetFields()["input"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "input is required")
	}
	if _, isString := input.GetKind().(*structpb.Value_StringValue); !isString {
		return nil, status.Error(codes.InvalidArgument, "input must be a string")
	}

	tokens, err := lexer.Scan(input.GetStringValue())
	if err != nil {
		return nil, lexStatus(err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{"tokens": tokensToList(tokens)})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode tokens: %v", err)
	}
	return out, nil
}

// ScanBatch scans every string in the "inputs" list, records the results and
// returns a completed operation whose response lists them.
func (s *Server) ScanBatch(ctx context.Context, req *structpb.Struct) (*longrunningpb.Operation, error) {
	list := req.GetFields()["inputs"].GetListValue()
	if list == nil || len(list.GetValues()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "inputs is required")
	}

	names := make([]string, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
			return nil, status.Errorf(codes.InvalidArgument, "inputs[%d] must be a string", i)
		}
		input := v.GetStringValue()
		tokens, err := lexer.Scan(input)
		names = append(names, s.store.Record(input, tokens, err).Name)
	}

	op := s.store.CreateOperation(names)
	log.Printf("gRPC batch %s: %d scans", op.Name, len(names))
	return s.operationToProto(op)
}

// --- Operations Service ---

func (s *Server) GetOperation(ctx context.Context, req *longrunningpb.GetOperationRequest) (*longrunningpb.Operation, error) {
	op, err := s.store.GetOperation(req.GetName())
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return s.operationToProto(op)
}

// --- Helpers ---

// lexStatus converts a lexer error into an InvalidArgument status carrying
// the error kind and position as ErrorInfo.
func lexStatus(err error) error {
	le, ok := err.(*lexer.LexError)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}
	st := status.New(codes.InvalidArgument, le.Message)
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(le.Kind),
		Domain:   ErrorDomain,
		Metadata: map[string]string{"position": strconv.Itoa(le.Pos)},
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

func tokensToList(tokens []token.Token) []interface{} {
	items := make([]interface{}, len(tokens))
	for i, t := range tokens {
		items[i] = t.Map()
	}
	return items
}

func scanToMap(sc *store.Scan) map[string]interface{} {
	m := map[string]interface{}{
		"name":  sc.Name,
		"input": sc.Input,
		"state": string(sc.State),
	}
	if sc.State == store.ScanSucceeded {
		m["tokens"] = tokensToList(sc.Tokens)
	}
	if sc.Error != nil {
		m["error"] = sc.Error.ToMap()
	}
	return m
}

func (s *Server) operationToProto(op *store.Operation) (*longrunningpb.Operation, error) {
	scans := s.store.OperationScans(op)
	results := make([]interface{}, len(scans))
	for i, sc := range scans {
		results[i] = scanToMap(sc)
	}
	resp, err := structpb.NewStruct(map[string]interface{}{"scans": results})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode operation result: %v", err)
	}
	return doneOperation(op.Name, resp)
}

func doneOperation(name string, msg proto.Message) (*longrunningpb.Operation, error) {
	any, err := anypb.New(msg)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to marshal operation result: %v", err)
	}
	return &longrunningpb.Operation{
		Name: name,
		Done: true,
		Result: &longrunningpb.Operation_Response{
			Response: any,
		},
	}, nil
}
