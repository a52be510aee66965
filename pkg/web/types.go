package web

import (
	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/dukex/operion-recraft/pkg/protocol"
)

// ExecuteRequest is the body of POST /executions.
type ExecuteRequest struct {
	Items          []ExecuteItem `json:"items"            validate:"dive"`
	ContinueOnFail bool          `json:"continue_on_fail"`
}

// ExecuteItem is one record of an execution request.
type ExecuteItem struct {
	Operation string                   `json:"operation"`
	Params    models.ParameterSet      `json:"params"`
	Binary    map[string]BinaryPayload `json:"binary"    validate:"dive,keys,required,endkeys"`
}

// BinaryPayload carries one base64-encoded binary property.
type BinaryPayload struct {
	Data     string `json:"data"      validate:"required,base64"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// ExecuteResponse is returned when every record produced an envelope.
type ExecuteResponse struct {
	ExecutionID string                  `json:"execution_id"`
	Results     []models.ResultEnvelope `json:"results"`
}

// NodeResponse describes a registered node type.
type NodeResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Operations  []string `json:"operations"`
}

// TransformNodeResponse builds the public description of a factory.
func TransformNodeResponse(factory protocol.NodeFactory) NodeResponse {
	ops := factory.Operations()

	response := NodeResponse{
		ID:          factory.ID(),
		Name:        factory.Name(),
		Description: factory.Description(),
		Operations:  make([]string, 0, len(ops)),
	}

	for _, op := range ops {
		response.Operations = append(response.Operations, op.String())
	}

	return response
}

func (r ExecuteRequest) toItems() []models.Item {
	items := make([]models.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, models.Item{Operation: models.ParseOperationLenient(item.Operation), Params: item.Params})
	}

	return items
}
