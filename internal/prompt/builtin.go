package prompt

// Built-in template names.
const (
	Fix      = "fix.md"
	Plan     = "plan.md"
	Generate = "generate.md"
	Modify   = "modify.md"
)

// builtinTemplates maps template filename to content.
var builtinTemplates = map[string]string{
	Fix:      fixTemplate,
	Plan:     planTemplate,
	Generate: generateTemplate,
	Modify:   modifyTemplate,
}

const fence = "```"

const fixTemplate = `You are an expert senior software engineer analyzing code to fix issues.

Context: {{#if issue_summary}}Issue Context: {{issue_summary}}

Original Question: {{/if}}{{question}}

File: {{file_name}}
Summary: {{file_summary}}

Code with line numbers:
` + fence + `
{{code}}
` + fence + `
{{#if visible_lines}}
Only lines 1-{{visible_lines}} of {{total_lines}} are shown. Lines after {{visible_lines}} are out of scope: do not reference them in lineChanges.
{{/if}}
Analyze this code and determine if it needs to be fixed based on the SPECIFIC issue mentioned in the context. Focus ONLY on the exact problem described.

Instead of rewriting the entire file, identify the specific lines that need changes.

CRITICAL: You must respond with ONLY a valid JSON object. No markdown formatting, no explanations, no text outside the JSON object.

Respond with valid JSON in this exact format:
{
  "needsFix": boolean,
  "lineChanges": [
    {
      "lineNumber": number,
      "action": "remove" | "replace" | "add",
      "originalLine": "original line content",
      "newLine": "new line content (if action is replace or add)"
    }
  ],
  "explanation": "specific explanation of the exact issue and minimal fix applied",
  "changes": ["array of specific changes made"]
}

IMPORTANT RULES:
- Make ONLY the minimal line changes needed to fix the SPECIFIC issue mentioned
- DO NOT make any other improvements, optimizations, or style changes
- If the issue is "X is defined but never used", ONLY remove the unused import/variable line
- If the issue is a type error, ONLY fix the specific type on that line
- If the issue is a syntax error, ONLY fix the specific syntax on that line
- DO NOT refactor, reorganize, or improve code beyond the specific issue
- Line numbers always refer to the ORIGINAL file shown above
- For remove action: specify lineNumber and originalLine
- For replace action: specify lineNumber, originalLine, and newLine
- For add action: specify lineNumber (to add after), and newLine
- If no fix is needed for the specific issue, set needsFix to false
- The response must be parseable JSON, with no markdown blocks or extra text
`

const planTemplate = `Plan a COMPLETE, ORCHESTRATED implementation for this feature request:

Request: "{{question}}"
{{#if issue_summary}}Summary: "{{issue_summary}}"
{{/if}}
Project Details:
- Language: {{language}}
- Dependency File: {{dependency_file}}
- Main Entry: {{main_file}}
- Import Pattern: {{import_pattern}}

Repository Context:
- Frameworks: {{frameworks}}
- File Count: {{file_count}}
- Existing Directories: {{directories}}

You must plan ALL COORDINATED CHANGES needed for a working feature.

Respond with a JSON object:
{
  "needsNewFiles": boolean,
  "reasoning": "explanation of the orchestrated approach",
  "orchestratedPlan": {
    "newFiles": [
      {
        "path": "{{example_path}}",
        "type": "{{file_types}}",
        "description": "what this file will do",
        "priority": "high|medium|low",
        "dependencies": ["list of packages this file needs"]
      }
    ],
    "modifiedFiles": [
      {
        "path": "{{main_file}}",
        "reason": "why this file needs modification",
        "changes": ["import new component", "register service", "add route"]
      }
    ],
    "dependencyUpdates": [
      {
        "file": "{{dependency_file}}",
        "packages": [
          {"name": "package-name", "version": "^1.0.0", "reason": "needed for X feature"}
        ]
      }
    ],
    "configurationChanges": [
      {
        "file": "config file path",
        "changes": ["add environment variables", "update settings"]
      }
    ],
    "integrationSteps": [
      "Step 1: Import in main file",
      "Step 2: Export from index",
      "Step 3: Update configuration"
    ]
  },
  "summary": "Complete feature implementation plan",
  "estimatedFiles": "total number of files that will be created/modified"
}

CRITICAL: This must be a COMPLETE working feature, not isolated files.
Think about:
1. What new files need to be created?
2. What existing files need imports/exports updated?
3. What dependencies need to be added?
4. What configuration files need updates?
5. How does this integrate with the existing codebase?

If the request only needs changes to existing files, return empty lists.

Examples of orchestrated thinking:
- "Add chat feature": create ChatComponent, add socket.io to the dependency file, export from index, import in App, add route
- "Add email service": create EmailService, add nodemailer, export from services, import in main
- "Add user authentication": create AuthService, add bcrypt and jwt, add middleware, routes and config updates
`

const generateTemplate = `Generate a complete {{language_name}} {{file_type}} for this request:

File: {{file_path}}
Type: {{file_type}}
Description: {{description}}
Original Request: "{{question}}"
{{#if project_frameworks}}
Project Context:
- Framework: {{project_frameworks}}
- Uses TypeScript: {{uses_typescript}}
{{/if}}
Requirements:
{{requirements}}
{{#if naming}}
Example patterns:
{{naming}}
{{/if}}

Respond with JSON:
{
  "code": "complete file content here",
  "explanation": "what this file does and how it works",
  "dependencies": ["package names if any new deps needed"]
}
`

const modifyTemplate = `You need to modify an existing file for orchestrated feature integration.

File to modify: {{file_path}}
Modification type: {{modification_type}}
Reason: {{reason}}
Original request: "{{question}}"

Specific instructions:
{{instructions}}

CURRENT FILE CONTENT:
` + fence + `
{{original_code}}
` + fence + `

Generate the complete MODIFIED file content with the necessary changes for the feature integration.
The modifications should include things like:
- Adding import statements for new components/services
- Registering new routes or middleware
- Adding exports for new modules
- Integrating new functionality into existing code

Provide your response as JSON with this structure:
{
  "fixedCode": "// Complete modified file content here",
  "changes": [
    {
      "lineNumber": 1,
      "type": "add",
      "newContent": "import { NewService } from './services/NewService';",
      "reason": "Import the new service"
    },
    {
      "lineNumber": 45,
      "type": "modify",
      "oldContent": "const routes = [existingRoute];",
      "newContent": "const routes = [existingRoute, newRoute];",
      "reason": "Add new route to routes array"
    }
  ],
  "explanation": "Brief explanation of why these changes are needed",
  "summary": "Short summary of what was modified"
}

IMPORTANT: Return the COMPLETE modified file content in fixedCode, not just the changes.
`
