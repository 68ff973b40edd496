package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/grpcreflect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	rpb "google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/chazu/planvm/vm"
)

// Remote dispatches endpoints to a gRPC server, resolving methods
// through the server reflection service so no generated stubs are
// needed. Endpoint names take the form "package.Service/Method".
//
// Arguments map positionally onto the input message's fields in
// field-number order; the response message's set fields flatten back
// to values the same way.
type Remote struct {
	conn      *grpc.ClientConn
	refClient *grpcreflect.Client
	target    string
}

// DialRemote connects to a gRPC server with reflection enabled.
func DialRemote(target string) (*Remote, error) {
	conn, err := grpc.Dial(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dispatch: connecting to %s: %w", target, err)
	}
	refClient := grpcreflect.NewClientV1Alpha(context.Background(), rpb.NewServerReflectionClient(conn))
	return &Remote{conn: conn, refClient: refClient, target: target}, nil
}

// Close releases the connection.
func (r *Remote) Close() error {
	r.refClient.Reset()
	return r.conn.Close()
}

// Dispatch implements vm.Dispatcher.
func (r *Remote) Dispatch(ctx context.Context, endpoint vm.Endpoint, args []vm.Value) ([]vm.Value, error) {
	methodDesc, err := r.resolveMethod(endpoint.Name)
	if err != nil {
		return nil, &vm.UnrecognizedEndpointError{Name: endpoint.Name}
	}
	if methodDesc.IsClientStreaming() || methodDesc.IsServerStreaming() {
		return nil, fmt.Errorf("dispatch: %s is streaming, only unary endpoints are supported", endpoint.Name)
	}

	reqMsg, err := valuesToMessage(args, methodDesc.GetInputType())
	if err != nil {
		return nil, fmt.Errorf("dispatch: request for %s: %w", endpoint.Name, err)
	}

	respMsg := dynamic.NewMessage(methodDesc.GetOutputType())
	if err := r.conn.Invoke(ctx, "/"+endpoint.Name, reqMsg, respMsg); err != nil {
		return nil, fmt.Errorf("dispatch: %s: %w", endpoint.Name, err)
	}

	return messageToValues(respMsg)
}

// resolveMethod resolves "package.Service/Method" to its descriptor.
func (r *Remote) resolveMethod(fullMethod string) (*desc.MethodDescriptor, error) {
	parts := strings.Split(fullMethod, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid method format: %s (expected 'service/method')", fullMethod)
	}
	svcDesc, err := r.refClient.ResolveService(parts[0])
	if err != nil {
		return nil, fmt.Errorf("cannot resolve service %s: %w", parts[0], err)
	}
	methodDesc := svcDesc.FindMethodByName(parts[1])
	if methodDesc == nil {
		return nil, fmt.Errorf("method %s not found in service %s", parts[1], parts[0])
	}
	return methodDesc, nil
}

// ---------------------------------------------------------------------------
// Message conversion: cell values <-> protobuf
// ---------------------------------------------------------------------------

func valuesToMessage(args []vm.Value, msgDesc *desc.MessageDescriptor) (*dynamic.Message, error) {
	fields := msgDesc.GetFields()
	if len(args) > len(fields) {
		return nil, fmt.Errorf("%d arguments for %d fields of %s", len(args), len(fields), msgDesc.GetFullyQualifiedName())
	}

	msg := dynamic.NewMessage(msgDesc)
	for i, arg := range args {
		field := fields[i]
		protoVal, err := valueToProtoField(arg, field)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.GetName(), err)
		}
		if err := msg.TrySetField(field, protoVal); err != nil {
			return nil, fmt.Errorf("setting field %s: %w", field.GetName(), err)
		}
	}
	return msg, nil
}

func valueToProtoField(val vm.Value, field *desc.FieldDescriptor) (interface{}, error) {
	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		if val.Kind() == vm.KindInteger {
			return int32(val.Int()), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		if val.Kind() == vm.KindInteger {
			return val.Int(), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		if val.Kind() == vm.KindUnsignedInteger {
			return uint32(val.Uint()), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		if val.Kind() == vm.KindUnsignedInteger {
			return val.Uint(), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		if val.Kind() == vm.KindFloat {
			return float32(val.Float()), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		if val.Kind() == vm.KindFloat {
			return val.Float(), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		if val.Kind() == vm.KindBool {
			return val.Bool(), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		if val.Kind() == vm.KindString {
			return val.Str(), nil
		}
		if val.Kind() == vm.KindUuid {
			return val.Uuid().String(), nil
		}
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		if val.Kind() == vm.KindBytes {
			return val.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %s to proto type %v", val, field.GetType())
}

func messageToValues(msg *dynamic.Message) ([]vm.Value, error) {
	var out []vm.Value
	for _, field := range msg.GetMessageDescriptor().GetFields() {
		raw := msg.GetField(field)
		v, err := protoFieldToValue(raw, field)
		if err != nil {
			return nil, fmt.Errorf("dispatch: response field %s: %w", field.GetName(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func protoFieldToValue(raw interface{}, field *desc.FieldDescriptor) (vm.Value, error) {
	switch v := raw.(type) {
	case int32:
		return vm.FromInt(int64(v)), nil
	case int64:
		return vm.FromInt(v), nil
	case uint32:
		return vm.FromUint(uint64(v)), nil
	case uint64:
		return vm.FromUint(v), nil
	case float32:
		return vm.FromFloat(float64(v)), nil
	case float64:
		return vm.FromFloat(v), nil
	case bool:
		return vm.FromBool(v), nil
	case string:
		return vm.FromString(v), nil
	case []byte:
		return vm.FromBytes(v), nil
	default:
		return vm.Value{}, fmt.Errorf("unsupported proto type %v", field.GetType())
	}
}
