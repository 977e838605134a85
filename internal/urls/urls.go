package urls

// Documentation URLs for guides and troubleshooting.

// ProjectSite is the landing page of the project documentation.
const ProjectSite = "https://agama-project.github.io/"

// IssueTracker is where bugs in the service or the tools are reported.
const IssueTracker = "https://github.com/agama-project/agama/issues"
