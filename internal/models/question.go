package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Channel represents one of the six thematic channels of the
// knowledge valorisation assessment instrument.
// #DATA_ASSUMPTION: The channel set is fixed by the instrument, not user-defined
type Channel string

const (
	ChannelJointResearch        Channel = "JOINT_RESEARCH"
	ChannelSharedInfrastructure Channel = "SHARED_INFRASTRUCTURE"
	ChannelKnowledgeTransfer    Channel = "KNOWLEDGE_TRANSFER"
	ChannelEntrepreneurship     Channel = "ENTREPRENEURSHIP"
	ChannelMobilitySkills       Channel = "MOBILITY_SKILLS"
	ChannelInnovationEcosystem  Channel = "INNOVATION_ECOSYSTEM"
)

// Channels returns all channels in instrument order.
// #INTEGRATION_POINT: Scoring and report generation iterate in this order
func Channels() []Channel {
	return []Channel{
		ChannelJointResearch,
		ChannelSharedInfrastructure,
		ChannelKnowledgeTransfer,
		ChannelEntrepreneurship,
		ChannelMobilitySkills,
		ChannelInnovationEcosystem,
	}
}

// DisplayName returns the human-readable channel name from the instrument
func (c Channel) DisplayName() string {
	switch c {
	case ChannelJointResearch:
		return "Joint Research & Co-creation"
	case ChannelSharedInfrastructure:
		return "Shared Infrastructure & Resources"
	case ChannelKnowledgeTransfer:
		return "Knowledge & Technology Transfer"
	case ChannelEntrepreneurship:
		return "Entrepreneurship & Spin-offs"
	case ChannelMobilitySkills:
		return "Mobility & Skills Development"
	case ChannelInnovationEcosystem:
		return "Regional Innovation Ecosystem"
	}
	return string(c)
}

// MarshalJSON converts Channel to lowercase for JSON serialization
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(c)))
}

// UnmarshalJSON converts lowercase JSON to Channel
func (c *Channel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Channel(strings.ToUpper(s))
	return nil
}

// IsValid checks if the Channel is a valid value
func (c Channel) IsValid() bool {
	switch c {
	case ChannelJointResearch, ChannelSharedInfrastructure, ChannelKnowledgeTransfer,
		ChannelEntrepreneurship, ChannelMobilitySkills, ChannelInnovationEcosystem:
		return true
	}
	return false
}

// Factor represents one of the three analytical lenses cutting across
// every channel.
type Factor string

const (
	FactorEnvironmental  Factor = "ENVIRONMENTAL"
	FactorOrganizational Factor = "ORGANIZATIONAL"
	FactorIndividual     Factor = "INDIVIDUAL"
)

// Factors returns all factors in instrument order
func Factors() []Factor {
	return []Factor{FactorEnvironmental, FactorOrganizational, FactorIndividual}
}

// DisplayName returns the human-readable factor name from the instrument
func (f Factor) DisplayName() string {
	switch f {
	case FactorEnvironmental:
		return "Environmental (policy, regulatory)"
	case FactorOrganizational:
		return "Organizational (internal processes)"
	case FactorIndividual:
		return "Individual (personal, skills)"
	}
	return string(f)
}

// MarshalJSON converts Factor to lowercase for JSON serialization
func (f Factor) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(f)))
}

// UnmarshalJSON converts lowercase JSON to Factor
func (f *Factor) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Factor(strings.ToUpper(s))
	return nil
}

// IsValid checks if the Factor is a valid value
func (f Factor) IsValid() bool {
	switch f {
	case FactorEnvironmental, FactorOrganizational, FactorIndividual:
		return true
	}
	return false
}

// AnswerType represents the rating scale of a question
// #IMPLEMENTATION_DECISION: Two answer types only - 7-point Likert and binary
type AnswerType string

const (
	AnswerTypeLikert7 AnswerType = "LIKERT_7"
	AnswerTypeYesNo   AnswerType = "YES_NO"
)

// MarshalJSON converts AnswerType to lowercase for JSON serialization
func (at AnswerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(at)))
}

// UnmarshalJSON converts lowercase JSON to AnswerType
func (at *AnswerType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*at = AnswerType(strings.ToUpper(s))
	return nil
}

// IsValid checks if the AnswerType is a valid value
func (at AnswerType) IsValid() bool {
	return at == AnswerTypeLikert7 || at == AnswerTypeYesNo
}

// Question represents a single item of the question bank.
// Questions are immutable once loaded; the catalog is the read-only
// source of (channel, factor) membership for scoring.
// #CARDINALITY_ASSUMPTION: Every question belongs to exactly one (channel, factor) pair
// #DATA_ASSUMPTION: (channel, factor) pairs need not have equal question counts
type Question struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	QuestionID string             `bson:"question_id" json:"id"`
	Channel    Channel            `bson:"channel" json:"channel"`
	Factor     Factor             `bson:"factor" json:"factor"`
	Type       AnswerType         `bson:"type" json:"type"`
	Prompt     string             `bson:"prompt" json:"prompt"`
	Order      int                `bson:"order" json:"order"`

	CreatedAt time.Time `bson:"created_at" json:"-"`
}

// CollectionName returns the MongoDB collection name for questions
func (Question) CollectionName() string {
	return "questions"
}

// BeforeCreate sets default values before inserting a new question
func (q *Question) BeforeCreate() {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	q.CreatedAt = time.Now().UTC()
}

// Validate checks that the question carries every required field and that
// the enumeration values are recognized.
// #BUSINESS_RULE: Catalog validation failures are fatal - scoring must never
// run against a malformed question bank
func (q *Question) Validate() error {
	if q.QuestionID == "" {
		return fmt.Errorf("%w: question is missing an id", ErrCatalogInvalid)
	}
	if !q.Channel.IsValid() {
		return fmt.Errorf("%w: question %q has unrecognized channel %q", ErrCatalogInvalid, q.QuestionID, q.Channel)
	}
	if !q.Factor.IsValid() {
		return fmt.Errorf("%w: question %q has unrecognized factor %q", ErrCatalogInvalid, q.QuestionID, q.Factor)
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("%w: question %q has unrecognized answer type %q", ErrCatalogInvalid, q.QuestionID, q.Type)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: question %q has an empty prompt", ErrCatalogInvalid, q.QuestionID)
	}
	return nil
}
