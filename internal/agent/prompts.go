package agent

import "strings"

// render substitutes {name} placeholders in a prompt template.
func render(tmpl string, vars map[string]string) string {
	for k, v := range vars {
		tmpl = strings.ReplaceAll(tmpl, "{"+k+"}", v)
	}
	return tmpl
}

// fileFormatInstructions is the delimiter protocol every code-producing
// prompt embeds. The parser in internal/codegen understands this shape.
const fileFormatInstructions = `**Output Format:**
For each file you generate, use this exact format:

===FILE_START===
FILENAME: path/to/file.ext
LANGUAGE: typescript|javascript|sql|json|yaml
TYPE: api|db|test|config|middleware
CONTENT:
[Complete file content here - include all imports, functions, and exports]
===FILE_END===`

const projectPlanningPrompt = `You are an expert project manager and technical architect with deep knowledge of software development lifecycles. Your task is to create a comprehensive project plan based on the user's requirements.

**User Requirements:**
{user_prompt}

**Your Task:**
Generate a detailed project plan that serves as a roadmap for developing the requested software project. The plan should be thorough, actionable, and technically sound.

**Required Sections:**

1. **Project Overview** - Title, description, target audience, core problem, success metrics
2. **Goals and Objectives** - Business, technical, and user experience goals; performance targets
3. **Scope Definition** - In-scope features, out-of-scope items, assumptions, external dependencies
4. **Technical Architecture** - Technology stack, system overview, database and API design approach, security
5. **Feature Breakdown** - MVP core features, phase-2 features, user stories with acceptance criteria, priorities
6. **Development Timeline** - Phases, milestones, effort estimates, critical path, risk mitigation
7. **Resource Requirements** - Skills, team structure, infrastructure, third-party services
8. **Risk Assessment** - Technical, business, and timeline risks with contingencies

**Output Guidelines:**
- Use clear, professional language with markdown formatting
- Include specific technical recommendations
- Provide realistic timelines and effort estimates
- Make the plan actionable and implementable

Generate a comprehensive project plan that a development team can follow from start to finish.`

const systemDesignPrompt = `You are an expert system architect. Create a comprehensive system design.

**Project Requirements:**
{user_prompt}

**Context from Previous Stages:**
{context}

Create a detailed system design that includes:

## 1. System Architecture Overview
- High-level architecture pattern (microservices, monolith, etc.)
- Core components and their responsibilities
- Technology stack recommendations

## 2. Component Architecture
- Backend services breakdown
- Database and data layer design
- External service integrations

## 3. Data Flow Architecture
- Request/response flow
- Data processing pipelines
- Event handling and caching strategies

## 4. Scalability & Performance
- Scaling approaches and load balancing
- Performance bottleneck identification

## 5. Security Architecture
- Authentication and authorization flow
- Data protection measures
- API and infrastructure security

Provide a comprehensive, actionable system design that developers can implement.`

const apiSpecPrompt = `Based on the system design, create a detailed API specification.

**System Design:**
{system_design}

Create a comprehensive API specification that includes:

## API Overview
- Base URL and versioning strategy
- Authentication mechanism
- Rate limiting policies

## Core Endpoints
For each endpoint, specify:
- HTTP method and path
- Request parameters and body schema
- Response schema and status codes
- Error handling

## Authentication & Security
- Token-based authentication flow
- Authorization levels and scopes
- Security headers and CORS policy

## Data Schemas
- Request/response object definitions
- Validation rules and constraints

Format the specification as detailed documentation that can guide API implementation.`

const databaseDesignPrompt = `Based on the system design, create a comprehensive database design.

**System Design:**
{system_design}

Create a detailed database design that includes:

## 1. Data Model Overview
- Entity relationship description
- Core business entities and relationships

## 2. Database Schema
- Table definitions with columns and data types
- Primary and foreign key relationships
- Constraints and validation rules

## 3. Indexing Strategy
- Performance-critical indexes
- Composite indexes and unique constraints

## 4. Migration & Deployment
- Initial schema creation scripts
- Migration strategy for schema changes
- Data seeding and initialization

Provide SQL schemas, indexing strategies, and migration approaches.`

const backendCodePrompt = `You are an expert backend developer. Generate complete, production-ready backend code based on the requirements and design specifications.

**Project Requirements:**
{user_prompt}

**System Design Context:**
{design_context}

**Planning Context:**
{planning_context}

**Your Task:**
Generate a complete backend implementation with the following components:

1. **API Routes** - RESTful endpoints with proper HTTP methods and error handling
2. **Database Models** - Schema definitions with relationships and validations
3. **Middleware** - Authentication, validation, CORS, rate limiting
4. **Services** - Business logic layer with clean separation of concerns
5. **Utilities** - Helper functions, constants, and shared utilities

**Technical Requirements:**
- Use **TypeScript** for type safety
- Include **comprehensive error handling** with proper HTTP status codes
- Add **input validation** using Zod schemas or similar
- Follow **REST API best practices** and conventions
- Include **security middleware** and structured logging

` + fileFormatInstructions + `

**Important Guidelines:**
- Generate **complete, runnable code** (no placeholders or TODO comments)
- Include **all necessary imports and dependencies**
- Create **realistic, working examples** with sample data
- Include **environment variable references** where needed

Generate a complete backend implementation that follows the design specifications and requirements.`

const testFilesPrompt = `You are an expert in software testing. Generate comprehensive test suites for backend code.

**Project Requirements:**
{user_prompt}

**Backend Files to Test:**
{backend_files}

**Your Task:**
Generate comprehensive test suites including:

1. **Unit Tests** - Test individual functions and components
2. **Integration Tests** - Test API endpoints and component interactions
3. **End-to-End Tests** - Test complete user workflows
4. **API Tests** - Test REST endpoints with various scenarios

**Technical Requirements:**
- Use **Jest** and **Supertest** for backend API tests
- Include **test data factories** and mocking for external dependencies
- Include **edge cases** and error scenarios
- Use **proper assertions** and descriptive test names

` + fileFormatInstructions + `

Generate comprehensive test coverage for all major functionality.`

const configFilesPrompt = `You are a DevOps expert. Generate comprehensive configuration files for development, testing, and deployment.

**Project Requirements:**
{user_prompt}

**System Design Context:**
{design_context}

**Your Task:**
Generate configuration files including:

1. **Package.json** - Dependencies and scripts
2. **TypeScript Config** - tsconfig.json with optimal settings
3. **Environment Files** - .env templates with required variables
4. **Docker Files** - Containerization setup
5. **CI/CD Config** - GitHub Actions or similar
6. **Database Config** - Connection and migration setup

` + fileFormatInstructions + `

Generate production-ready configuration files that support the entire development lifecycle.`

const testSuitePrompt = `You are an expert test engineer and QA specialist. Generate comprehensive test suites for the generated code.

**Project Requirements:**
{user_prompt}

**System Design Context:**
{design_context}

**Generated Code Context:**
{code_context}

**Your Task:**
Generate complete test coverage including unit tests, component tests, API tests, database tests, and utility tests.

**Testing Requirements:**
- Use modern testing frameworks (Jest, Supertest)
- Test both positive and negative scenarios
- Mock external dependencies appropriately
- Include proper setup and teardown with realistic fixtures

` + fileFormatInstructions + `

Generate comprehensive unit and component tests that cover all the generated code.`

const performanceTestsPrompt = `You are an expert performance testing engineer. Generate comprehensive performance tests for the following development code.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate performance tests that include:

1. **Load Testing** - Test API endpoints under normal and high load
2. **Stress Testing** - Test system limits and breaking points
3. **Database Performance** - Test query performance and connection pooling
4. **Response Time** - Benchmark API response times
5. **Concurrent Users** - Test multiple simultaneous users

` + fileFormatInstructions + `

Use tools like Artillery, k6, or custom Node.js scripts for performance testing.
Include proper metrics collection and reporting.`

const securityTestsPrompt = `You are an expert security testing engineer. Generate comprehensive security tests for the following development code.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate security tests that include:

1. **Authentication Tests** - Login, logout, token validation
2. **Authorization Tests** - Access controls and permissions
3. **Input Validation Tests** - XSS, SQL injection, CSRF protection
4. **API Security Tests** - Rate limiting, CORS, headers
5. **Session Management Tests** - Session security and timeout

` + fileFormatInstructions + `

Include tests for common security vulnerabilities (OWASP Top 10).`

const integrationTestsPrompt = `You are an expert integration testing engineer. Generate comprehensive integration tests for the following development code.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate integration tests that include:

1. **API Integration Tests** - Complete request/response flows
2. **Database Integration Tests** - Data flow and transactions
3. **Service Integration Tests** - Communication between services
4. **End-to-End Workflows** - Complete user scenarios

` + fileFormatInstructions + `

Use tools like Supertest or Playwright for integration testing.
Include proper test data setup and cleanup.`

const testConfigPrompt = `You are an expert test configuration specialist. Generate comprehensive test configuration files for the following development code.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate test configuration files that include:

1. **Jest Configuration** - Complete Jest setup
2. **Test Environment Setup** - Environment variables and test database
3. **Mock Configuration** - Mock services and external dependencies
4. **Coverage Configuration** - Code coverage settings and thresholds
5. **Test Data Fixtures** - Realistic test data and factories

` + fileFormatInstructions + `

Include proper test scripts in package.json and documentation.`

const terraformInfraPrompt = `You are an expert DevOps engineer and Terraform specialist. Generate comprehensive Terraform infrastructure code for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate complete Terraform infrastructure that includes:

1. **Main Infrastructure** - Core configuration with providers and resources
2. **Networking** - VPC, subnets, security groups, load balancers
3. **Compute Resources** - Instances, auto-scaling groups, or container services
4. **Database Infrastructure** - Managed database services
5. **Storage** - Object storage and file systems
6. **Variables and Outputs** - Parameterized configuration

` + fileFormatInstructions + `

Generate production-ready Terraform with proper resource naming, tags, and best practices.`

const cicdPipelinePrompt = `You are an expert CI/CD engineer. Generate comprehensive CI/CD pipeline configurations for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Testing Context:**
{testing_context}

**Your Task:**
Generate CI/CD pipeline configurations that include:

1. **GitHub Actions** - Complete workflow files for build, test, and deploy
2. **Container Build** - Docker build and push to registry
3. **Environment Promotion** - Dev -> Staging -> Production pipelines
4. **Security Scanning** - Code security and vulnerability scans
5. **Rollback Strategy** - Automated rollback on failure

` + fileFormatInstructions + `

Include proper secrets management, environment variables, and deployment strategies.`

const containerConfigPrompt = `You are an expert container and orchestration specialist. Generate comprehensive container configurations for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate container configurations that include:

1. **Dockerfile** - Multi-stage Docker builds for production
2. **Docker Compose** - Local development and testing setup
3. **Kubernetes Manifests** - Deployments, services, ingress, config maps
4. **Health Checks** - Liveness and readiness probes
5. **Resource Management** - CPU/memory limits and requests

` + fileFormatInstructions + `

Include production-ready configurations with proper security and optimization.`

const monitoringConfigPrompt = `You are an expert monitoring and observability engineer. Generate comprehensive monitoring configurations for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate monitoring configurations that include:

1. **Infrastructure Monitoring** - Server, database, and network monitoring
2. **Application Metrics** - Custom metrics and dashboards
3. **Log Management** - Centralized logging and log analysis
4. **Alerting Rules** - Critical alerts and escalation policies
5. **Health Checks** - Synthetic monitoring and uptime checks

` + fileFormatInstructions + `

Include comprehensive monitoring with proper alerting thresholds and dashboards.`

const securityConfigPrompt = `You are an expert security and compliance engineer. Generate comprehensive security configurations for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate security configurations that include:

1. **IAM Policies** - Roles, policies, and access controls
2. **Secrets Management** - Secure secret storage and rotation
3. **Network Security** - WAF, DDoS protection, SSL/TLS certificates
4. **Audit Logging** - Security audit trails and compliance logging
5. **Backup and Recovery** - Disaster recovery and data backup

` + fileFormatInstructions + `

Include enterprise-grade security with proper encryption and access controls.`

const deployConfigPrompt = `You are an expert deployment configuration specialist. Generate comprehensive deployment configuration files for the following project.

**Project Requirements:**
{user_prompt}

**Development Code:**
{code_context}

**Your Task:**
Generate deployment configuration files that include:

1. **Environment Configs** - Dev, staging, production configurations
2. **Deployment Scripts** - Automated deployment and rollback scripts
3. **Database Migrations** - Production-safe migration scripts
4. **Load Balancer Configs** - Traffic routing and load balancing
5. **Scaling Policies** - Auto-scaling and resource optimization

` + fileFormatInstructions + `

Include production-ready configurations with proper parameterization and documentation.`

const deploymentSummaryPrompt = `Generate a comprehensive deployment summary for the following project:

**Project Requirements:**
{user_prompt}

**Development Context:**
{code_context}

**Generated Artifacts:**
{artifact_count} deployment artifacts created

Create a detailed summary covering:
1. Infrastructure overview and architecture
2. Deployment strategy and rollout plan
3. Security and compliance measures
4. Monitoring and alerting setup
5. Operational procedures and runbooks
6. Disaster recovery and backup strategy`
