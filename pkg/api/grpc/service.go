package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	longrunningpb "cloud.google.com/go/longrunning/autogen/longrunningpb"
)

// Full method names of the Lexer service.
const (
	LexerServiceName     = "arithlex.v1.Lexer"
	LexerTokenizeMethod  = "/arithlex.v1.Lexer/Tokenize"
	LexerScanBatchMethod = "/arithlex.v1.Lexer/ScanBatch"
)

var lexerServiceDesc = grpc.ServiceDesc{
	ServiceName: LexerServiceName,
	HandlerType: (*LexerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Tokenize",
			Handler:    lexerTokenizeHandler,
		},
		{
			MethodName: "ScanBatch",
			Handler:    lexerScanBatchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "arithlex/v1/lexer.proto",
}

func lexerTokenizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LexerServer).Tokenize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LexerTokenizeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LexerServer).Tokenize(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func lexerScanBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LexerServer).ScanBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: LexerScanBatchMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LexerServer).ScanBatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the Lexer service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Lexer client.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Tokenize scans a single input remotely.
func (c *Client) Tokenize(ctx context.Context, input string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"input": input})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LexerTokenizeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ScanBatch scans several inputs remotely and returns the batch operation.
func (c *Client) ScanBatch(ctx context.Context, inputs []string, opts ...grpc.CallOption) (*longrunningpb.Operation, error) {
	values := make([]interface{}, len(inputs))
	for i, s := range inputs {
		values[i] = s
	}
	in, err := structpb.NewStruct(map[string]interface{}{"inputs": values})
	if err != nil {
		return nil, err
	}
	out := new(longrunningpb.Operation)
	if err := c.cc.Invoke(ctx, LexerScanBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
