package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kval-tools/assessment_backend/internal/models"
)

// Seeder handles database seeding operations
// #SEED_DATA: Built-in question catalog used when no external catalog was imported
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedQuestionCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed question catalog: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

// SeedQuestionCatalog seeds the built-in question catalog.
// #BUSINESS_RULE: Seeding is skipped when any questions exist, so a catalog
// imported via the seed-catalog tool is never overwritten
func (s *Seeder) SeedQuestionCatalog(ctx context.Context) error {
	collection := s.db.Collection(models.Question{}.CollectionName())

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Question catalog already exists, skipping seeding")
		return nil
	}

	questions := BuiltinCatalog()

	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		q.BeforeCreate()
		if err := q.Validate(); err != nil {
			return fmt.Errorf("built-in catalog question %s: %w", q.QuestionID, err)
		}
		docs[i] = q
	}

	if _, err := collection.InsertMany(ctx, docs); err != nil {
		return err
	}

	log.Printf("Seeded %d catalog questions", len(questions))
	return nil
}

// catalogEntry is the compact form used to declare the built-in catalog
type catalogEntry struct {
	id      string
	channel models.Channel
	factor  models.Factor
	typ     models.AnswerType
	prompt  string
}

// BuiltinCatalog returns the built-in question catalog: three questions for
// every channel/factor pair, two on the seven-point agreement scale and one
// yes/no.
func BuiltinCatalog() []*models.Question {
	entries := []catalogEntry{
		// Joint Research & Co-creation
		{"q_jr_env_1", models.ChannelJointResearch, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"National and regional policy frameworks effectively support sustained industry-academia co-creation."},
		{"q_jr_env_2", models.ChannelJointResearch, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Public funding instruments are available for collaborative R&I projects between academia and industry."},
		{"q_jr_env_3", models.ChannelJointResearch, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Are there formal joint research agreements in place with industrial partners?"},
		{"q_jr_org_1", models.ChannelJointResearch, models.FactorOrganizational, models.AnswerTypeLikert7,
			"IP and data governance policies are adapted to enable equitable sharing in joint R&I projects."},
		{"q_jr_org_2", models.ChannelJointResearch, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Dedicated structures exist to initiate, negotiate and manage collaborative research projects."},
		{"q_jr_org_3", models.ChannelJointResearch, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Does the organisation co-design research agendas together with industrial partners?"},
		{"q_jr_ind_1", models.ChannelJointResearch, models.FactorIndividual, models.AnswerTypeLikert7,
			"Researchers receive training or mentoring for working with industrial partners."},
		{"q_jr_ind_2", models.ChannelJointResearch, models.FactorIndividual, models.AnswerTypeLikert7,
			"Collaboration with industry is recognised in researcher career assessment and promotion."},
		{"q_jr_ind_3", models.ChannelJointResearch, models.FactorIndividual, models.AnswerTypeYesNo,
			"Are researchers formally authorised to lead or co-lead joint projects with industry?"},

		// Shared Infrastructure & Resources
		{"q_si_env_1", models.ChannelSharedInfrastructure, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Regional or national programmes fund shared research infrastructure accessible to both academia and industry."},
		{"q_si_env_2", models.ChannelSharedInfrastructure, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Regulatory conditions make it practical for external partners to access public research facilities."},
		{"q_si_env_3", models.ChannelSharedInfrastructure, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Is there a public catalogue of research infrastructure open to external users?"},
		{"q_si_org_1", models.ChannelSharedInfrastructure, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Research infrastructures are co-governed or co-used with industry, for example joint labs or testbeds."},
		{"q_si_org_2", models.ChannelSharedInfrastructure, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Transparent access and pricing rules exist for external use of laboratories and equipment."},
		{"q_si_org_3", models.ChannelSharedInfrastructure, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Does the organisation operate shared facilities together with industrial partners?"},
		{"q_si_ind_1", models.ChannelSharedInfrastructure, models.FactorIndividual, models.AnswerTypeLikert7,
			"Technical staff are trained to support external users of research infrastructure."},
		{"q_si_ind_2", models.ChannelSharedInfrastructure, models.FactorIndividual, models.AnswerTypeLikert7,
			"Researchers know how to arrange access to partner facilities when projects require it."},
		{"q_si_ind_3", models.ChannelSharedInfrastructure, models.FactorIndividual, models.AnswerTypeYesNo,
			"Are staff incentivised to make equipment and facilities available to external partners?"},

		// Knowledge & Technology Transfer
		{"q_kt_env_1", models.ChannelKnowledgeTransfer, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"The legal framework for licensing and IP transfer from public research is clear and workable."},
		{"q_kt_env_2", models.ChannelKnowledgeTransfer, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Public support instruments exist for proof-of-concept and technology maturation activities."},
		{"q_kt_env_3", models.ChannelKnowledgeTransfer, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Are there regional intermediaries dedicated to matching research results with industrial demand?"},
		{"q_kt_org_1", models.ChannelKnowledgeTransfer, models.FactorOrganizational, models.AnswerTypeLikert7,
			"A professional technology transfer function supports disclosure, protection and licensing of results."},
		{"q_kt_org_2", models.ChannelKnowledgeTransfer, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Knowledge transfer performance is monitored and reflected in institutional strategy."},
		{"q_kt_org_3", models.ChannelKnowledgeTransfer, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Does the organisation maintain standard agreement templates for licensing and contract research?"},
		{"q_kt_ind_1", models.ChannelKnowledgeTransfer, models.FactorIndividual, models.AnswerTypeLikert7,
			"Researchers understand how to disclose inventions and engage with the transfer office."},
		{"q_kt_ind_2", models.ChannelKnowledgeTransfer, models.FactorIndividual, models.AnswerTypeLikert7,
			"Participation in knowledge transfer activities is rewarded in researcher evaluation."},
		{"q_kt_ind_3", models.ChannelKnowledgeTransfer, models.FactorIndividual, models.AnswerTypeYesNo,
			"Do researchers retain a share of licensing revenue from their results?"},

		// Entrepreneurship & Spin-offs
		{"q_es_env_1", models.ChannelEntrepreneurship, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Regional access to pre-seed and seed funding is adequate for research-based ventures."},
		{"q_es_env_2", models.ChannelEntrepreneurship, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"The regulatory environment makes founding a spin-off from public research straightforward."},
		{"q_es_env_3", models.ChannelEntrepreneurship, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Are incubators or accelerators available to ventures emerging from the organisation?"},
		{"q_es_org_1", models.ChannelEntrepreneurship, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Clear institutional rules govern spin-off creation, equity participation and use of IP."},
		{"q_es_org_2", models.ChannelEntrepreneurship, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Dedicated support services help founding teams with business development and fundraising."},
		{"q_es_org_3", models.ChannelEntrepreneurship, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Has the organisation created spin-off companies in the last three years?"},
		{"q_es_ind_1", models.ChannelEntrepreneurship, models.FactorIndividual, models.AnswerTypeLikert7,
			"Researchers and students have access to entrepreneurship training and coaching."},
		{"q_es_ind_2", models.ChannelEntrepreneurship, models.FactorIndividual, models.AnswerTypeLikert7,
			"Founding or joining a spin-off is a viable career step that does not penalise returning researchers."},
		{"q_es_ind_3", models.ChannelEntrepreneurship, models.FactorIndividual, models.AnswerTypeYesNo,
			"Can researchers take leave of absence to pursue venture creation?"},

		// Mobility & Skills Development
		{"q_ms_env_1", models.ChannelMobilitySkills, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Funding schemes support temporary placements of researchers in industry and vice versa."},
		{"q_ms_env_2", models.ChannelMobilitySkills, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Qualification frameworks recognise skills acquired through intersectoral mobility."},
		{"q_ms_env_3", models.ChannelMobilitySkills, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Are industrial doctorate programmes available in the region?"},
		{"q_ms_org_1", models.ChannelMobilitySkills, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Structured programmes exist for staff exchange and joint supervision with industrial partners."},
		{"q_ms_org_2", models.ChannelMobilitySkills, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Curricula are co-designed with industry to address current and future skills needs."},
		{"q_ms_org_3", models.ChannelMobilitySkills, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Does the organisation host practitioners from industry in teaching or research roles?"},
		{"q_ms_ind_1", models.ChannelMobilitySkills, models.FactorIndividual, models.AnswerTypeLikert7,
			"Time spent in industry counts positively towards academic career progression."},
		{"q_ms_ind_2", models.ChannelMobilitySkills, models.FactorIndividual, models.AnswerTypeLikert7,
			"Researchers are aware of the mobility opportunities open to them."},
		{"q_ms_ind_3", models.ChannelMobilitySkills, models.FactorIndividual, models.AnswerTypeYesNo,
			"Have staff members taken part in an intersectoral mobility scheme in the last three years?"},

		// Regional Innovation Ecosystem
		{"q_ie_env_1", models.ChannelInnovationEcosystem, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"A shared regional innovation strategy aligns the priorities of academia, industry and government."},
		{"q_ie_env_2", models.ChannelInnovationEcosystem, models.FactorEnvironmental, models.AnswerTypeLikert7,
			"Cluster organisations and networks actively broker collaboration across the ecosystem."},
		{"q_ie_env_3", models.ChannelInnovationEcosystem, models.FactorEnvironmental, models.AnswerTypeYesNo,
			"Does a standing forum exist where ecosystem actors coordinate innovation priorities?"},
		{"q_ie_org_1", models.ChannelInnovationEcosystem, models.FactorOrganizational, models.AnswerTypeLikert7,
			"The organisation participates strategically in regional clusters, platforms and alliances."},
		{"q_ie_org_2", models.ChannelInnovationEcosystem, models.FactorOrganizational, models.AnswerTypeLikert7,
			"Engagement with societal and civic actors is part of the organisation's innovation agenda."},
		{"q_ie_org_3", models.ChannelInnovationEcosystem, models.FactorOrganizational, models.AnswerTypeYesNo,
			"Is the organisation represented in the governance of regional innovation initiatives?"},
		{"q_ie_ind_1", models.ChannelInnovationEcosystem, models.FactorIndividual, models.AnswerTypeLikert7,
			"Staff have the networks and contacts needed to engage partners across the ecosystem."},
		{"q_ie_ind_2", models.ChannelInnovationEcosystem, models.FactorIndividual, models.AnswerTypeLikert7,
			"Ecosystem engagement activities are valued in individual performance reviews."},
		{"q_ie_ind_3", models.ChannelInnovationEcosystem, models.FactorIndividual, models.AnswerTypeYesNo,
			"Do individual staff members hold roles in cluster or network organisations?"},
	}

	questions := make([]*models.Question, len(entries))
	for i, e := range entries {
		questions[i] = &models.Question{
			QuestionID: e.id,
			Channel:    e.channel,
			Factor:     e.factor,
			Type:       e.typ,
			Prompt:     e.prompt,
			Order:      i + 1,
		}
	}
	return questions
}
